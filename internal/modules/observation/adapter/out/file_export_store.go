package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chronos/internal/modules/observation/domain"
	observationout "chronos/internal/modules/observation/port/out"
	"chronos/internal/platform/markdown"
)

var reportBlock = markdown.Block{Start: domain.ReportBlockStart, End: domain.ReportBlockEnd}

type exportMeta struct {
	SchemaVersion   int            `yaml:"schema_version"`
	SessionID       string         `yaml:"session_id"`
	Subject         string         `yaml:"subject"`
	Date            string         `yaml:"date"`
	StartedAt       string         `yaml:"started_at"`
	ExportedAt      string         `yaml:"exported_at"`
	DurationSeconds int            `yaml:"duration_seconds"`
	ModeSeconds     map[string]int `yaml:"mode_seconds,omitempty"`
	ActionCounts    map[string]int `yaml:"action_counts,omitempty"`
}

type FileExportStore struct {
	dir string
}

func NewFileExportStore(dir string) observationout.ExportStore {
	return &FileExportStore{dir: dir}
}

// SaveText writes the plain-text observation record prefixed with a byte
// order mark so spreadsheet and legacy editors detect UTF-8.
func (s *FileExportStore) SaveText(_ context.Context, export domain.Export) (string, error) {
	content := domain.ByteOrderMark + domain.Document(export.Subject, export.ExportedAt, export.ElapsedSeconds, export.Log)
	return s.write(domain.ExportFileName(export.Subject, export.ExportedAt, "txt"), content)
}

func (s *FileExportStore) SaveMarkdown(_ context.Context, export domain.Export) (string, error) {
	meta := exportMeta{
		SchemaVersion:   domain.SchemaVersion,
		SessionID:       export.SessionID,
		Subject:         export.Subject,
		Date:            export.ExportedAt.Format(domain.DateLayout),
		StartedAt:       export.StartedAt.Format(time.RFC3339),
		ExportedAt:      export.ExportedAt.Format(time.RFC3339),
		DurationSeconds: export.ElapsedSeconds,
		ModeSeconds:     map[string]int{},
		ActionCounts:    map[string]int{},
	}
	for _, m := range domain.Modes {
		if v := export.ModeDurations[m]; v > 0 {
			meta.ModeSeconds[m.Label()] = v
		}
	}
	for _, a := range domain.Actions {
		if v := export.ActionCounts[a]; v > 0 {
			meta.ActionCounts[a.Label()] = v
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 觀課紀錄：%s\n\n", export.Subject)
	fmt.Fprintf(&b, "- 日期：%s\n- 總時長：%s\n\n", export.ExportedAt.Format(domain.DateLayout), domain.FormatDuration(export.ElapsedSeconds))
	b.WriteString("## 時間軸\n\n```text\n")
	b.WriteString(domain.Flatten(export.Log))
	b.WriteString("\n```\n")
	body := b.String()
	if strings.TrimSpace(export.Report) != "" {
		body = reportBlock.Replace(body+"\n## AI 分析報告\n", strings.TrimSpace(export.Report))
	}

	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	return s.write(domain.ExportFileName(export.Subject, export.ExportedAt, "md"), rendered)
}

func (s *FileExportStore) write(name, content string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
