package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	assistantinadapter "chronos/internal/modules/assistant/adapter/in"
	assistantoutadapter "chronos/internal/modules/assistant/adapter/out"
	assistantout "chronos/internal/modules/assistant/port/out"
	assistantservice "chronos/internal/modules/assistant/service"
	assistantusecase "chronos/internal/modules/assistant/usecase"
	observationinadapter "chronos/internal/modules/observation/adapter/in"
	observationoutadapter "chronos/internal/modules/observation/adapter/out"
	observationservice "chronos/internal/modules/observation/service"
	observationusecase "chronos/internal/modules/observation/usecase"
	reportinadapter "chronos/internal/modules/report/adapter/in"
	reportusecase "chronos/internal/modules/report/usecase"
	"chronos/internal/platform/clock"
	"chronos/internal/platform/config"
	"chronos/internal/platform/id"
	"chronos/internal/platform/logging"
	"chronos/internal/platform/retry"
	uiapp "chronos/internal/ui/app"
)

type App struct {
	Config         config.Config
	Logger         hclog.Logger
	ObservationCLI observationinadapter.CLIHandler
	ReportCLI      reportinadapter.CLIHandler
	AssistantCLI   assistantinadapter.CLIHandler
}

type Options struct {
	// Clock defaults to the system clock; replay passes a manual one.
	Clock  clock.Clock
	Logger hclog.Logger
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	observationUC := observationusecase.NewInteractor(
		observationservice.NewSessionService(clk, id.UUID{}, cfg.Subjects, cfg.Reminder.StaleAfter, logger),
		observationoutadapter.NewFileExportStore(cfg.ExportDir),
		observationoutadapter.NewSystemClipboard(),
	)
	reportUC := reportusecase.NewInteractor(observationUC)

	gen, err := NewGenerator(ctx, cfg.Assistant)
	if err != nil {
		return nil, err
	}
	policy := retry.Policy{MaxAttempts: cfg.Assistant.MaxAttempts, BaseDelay: cfg.Assistant.BaseDelay}
	assistantUC := assistantusecase.NewInteractor(
		assistantservice.NewAssistantService(gen, assistantservice.Models{
			Fast:   cfg.Assistant.FastModel,
			Report: cfg.Assistant.ReportModel,
		}, policy, logger),
		reportUC,
	)
	logger.Debug("bootstrapped", "backend", gen.Name(), "export_dir", cfg.ExportDir, "subjects", len(cfg.Subjects))

	return &App{
		Config:         cfg,
		Logger:         logger,
		ObservationCLI: observationinadapter.NewCLIHandler(observationUC),
		ReportCLI:      reportinadapter.NewCLIHandler(reportUC),
		AssistantCLI:   assistantinadapter.NewCLIHandler(assistantUC),
	}, nil
}

// NewGenerator selects the text backend named by cfg.Backend.
func NewGenerator(ctx context.Context, cfg config.AssistantConfig) (assistantout.TextGenerator, error) {
	switch cfg.Backend {
	case config.BackendGemini:
		gen, err := assistantoutadapter.NewGeminiGenerator(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case config.BackendOpenAI:
		return assistantoutadapter.NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL), nil
	case config.BackendMock:
		return assistantoutadapter.NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported assistant backend %q", cfg.Backend)
	}
}

func RunTUI(app *App, subject string) error {
	model := uiapp.NewModel(app.ObservationCLI, app.ReportCLI, app.AssistantCLI, uiapp.Options{
		Subject:   subject,
		PollEvery: app.Config.Reminder.Interval,
		Logger:    app.Logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
