package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "chronos.yaml"

const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendMock   = "mock"
)

var DefaultSubjects = []string{"國文", "英文", "數學", "理化", "社會", "體育", "藝術", "資訊"}

type Config struct {
	Subjects  []string        `yaml:"subjects"`
	ExportDir string          `yaml:"export_dir"`
	LogPath   string          `yaml:"log_path"`
	LogLevel  string          `yaml:"log_level"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Assistant AssistantConfig `yaml:"assistant"`
}

type ReminderConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type AssistantConfig struct {
	Backend     string        `yaml:"backend"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	BaseURL     string        `yaml:"base_url"`
	FastModel   string        `yaml:"fast_model"`
	ReportModel string        `yaml:"report_model"`
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`

	// APIKey is resolved from APIKeyEnv and never read from the file.
	APIKey string `yaml:"-"`
}

func Default() Config {
	return Config{
		Subjects:  append([]string(nil), DefaultSubjects...),
		ExportDir: ".",
		LogLevel:  "info",
		Reminder: ReminderConfig{
			Interval:   10 * time.Second,
			StaleAfter: 5 * time.Minute,
		},
		Assistant: AssistantConfig{
			Backend:     BackendGemini,
			APIKeyEnv:   "GEMINI_API_KEY",
			FastModel:   "gemini-3-flash-preview",
			ReportModel: "gemini-3-pro-preview",
			MaxAttempts: 3,
			BaseDelay:   time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides. A missing file is only an error when explicit is true.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(cfg.ExportDir, "chronos.log")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHRONOS_BACKEND"); v != "" {
		cfg.Assistant.Backend = v
	}
	if v := os.Getenv("CHRONOS_BASE_URL"); v != "" {
		cfg.Assistant.BaseURL = v
	}
	if v := os.Getenv("CHRONOS_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if cfg.Assistant.APIKeyEnv != "" {
		cfg.Assistant.APIKey = os.Getenv(cfg.Assistant.APIKeyEnv)
	}
	// Without a credential the remote backends cannot work; fall back to the
	// offline generator so the recorder stays usable.
	if cfg.Assistant.APIKey == "" && cfg.Assistant.Backend != BackendMock {
		cfg.Assistant.Backend = BackendMock
	}
}

func (c Config) Validate() error {
	if len(c.Subjects) == 0 {
		return fmt.Errorf("at least one subject is required")
	}
	for _, s := range c.Subjects {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("subjects must not be blank")
		}
	}
	switch c.Assistant.Backend {
	case BackendGemini, BackendOpenAI, BackendMock:
	default:
		return fmt.Errorf("unsupported assistant backend %q", c.Assistant.Backend)
	}
	if c.Reminder.Interval <= 0 || c.Reminder.StaleAfter <= 0 {
		return fmt.Errorf("reminder durations must be positive")
	}
	if c.Assistant.MaxAttempts < 1 {
		return fmt.Errorf("assistant.max_attempts must be at least 1")
	}
	if c.Assistant.BaseDelay < 0 {
		return fmt.Errorf("assistant.base_delay must not be negative")
	}
	return nil
}

// Redacted is safe to print.
func (c Config) Redacted() Config {
	out := c
	out.Subjects = append([]string(nil), c.Subjects...)
	if out.Assistant.APIKey != "" {
		out.Assistant.APIKey = "****"
	}
	return out
}
