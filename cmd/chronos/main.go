package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"chronos/internal/bootstrap"
	observationin "chronos/internal/modules/observation/adapter/in"
	observationdomain "chronos/internal/modules/observation/domain"
	"chronos/internal/platform/clock"
	"chronos/internal/platform/config"
	"chronos/internal/platform/logging"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var subject string

	root := &cobra.Command{
		Use:           "chronos",
		Short:         "Classroom observation recorder",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags, subject)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default chronos.yaml if present)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	root.Flags().StringVar(&subject, "subject", "", "preselected subject")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newReplayCmd(flags))
	root.AddCommand(newPolishCmd(flags))
	root.AddCommand(newSubjectsCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	return config.Load(flags.configPath, flags.configPath != "")
}

// loadApp builds the application with a logger writing to w, or to the
// configured log file when w is nil.
func loadApp(ctx context.Context, flags *globalFlags, w io.Writer, clk clock.Clock) (*bootstrap.App, func() error, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	opts := logging.Options{Output: w, Level: "warn"}
	if w == nil {
		opts = logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel, JSON: true}
	}
	if flags.logLevel != "" {
		opts.Level = flags.logLevel
	}
	logger, closeLog, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Clock: clk, Logger: logger})
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}
	return app, closeLog, nil
}

func runTUI(cmd *cobra.Command, flags *globalFlags, subject string) error {
	app, closeLog, err := loadApp(cmd.Context(), flags, nil, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	return bootstrap.RunTUI(app, subject)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the observation terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags, subject)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "preselected subject")
	return cmd
}

func newReplayCmd(flags *globalFlags) *cobra.Command {
	var export string
	var withReport bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a scripted observation and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if export != "" && export != "txt" && export != "md" {
				return fmt.Errorf("--export must be txt or md")
			}
			script, err := observationin.LoadScript(args[0])
			if err != nil {
				return err
			}
			start := script.StartAt
			if start.IsZero() {
				start = time.Now()
			}
			clk := clock.NewManual(start)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			app, closeLog, err := loadApp(ctx, flags, cmd.ErrOrStderr(), clk)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			replayer := observationin.Replayer{
				Handler:   app.ObservationCLI,
				Advance:   clk.Advance,
				PollEvery: app.Config.Reminder.Interval,
			}
			if _, err := replayer.Run(ctx, script); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			summary, err := app.ReportCLI.Summary(ctx)
			if err != nil {
				return err
			}
			s := summary.Summary
			_, _ = fmt.Fprintf(out, "科目：%s\n總時長：%s\n\n模式佔比\n", s.Subject, s.Duration)
			for _, share := range s.Shares {
				_, _ = fmt.Fprintf(out, "  %-8s %s  %5.1f%%\n", share.Label, observationdomain.FormatDuration(share.Seconds), share.Percent)
			}
			_, _ = fmt.Fprintln(out, "\n行為累計")
			for _, a := range s.Actions {
				_, _ = fmt.Fprintf(out, "  %-8s %d 次\n", a.Label, a.Count)
			}
			current, err := app.ObservationCLI.Current(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "\n%s\n", observationdomain.Flatten(current.Session.Log))

			var reportText string
			if withReport {
				res, err := app.AssistantCLI.GenerateReport(ctx)
				if err != nil {
					return fmt.Errorf("--report needs a script that ends with stop: %w", err)
				}
				reportText = res.Markdown
				_, _ = fmt.Fprintf(out, "\n%s\n", reportText)
			}

			switch export {
			case "txt":
				exported, err := app.ObservationCLI.ExportText(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "\nexported %s\n", exported.Path)
			case "md":
				exported, err := app.ObservationCLI.ExportMarkdown(ctx, reportText)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "\nexported %s\n", exported.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "export format: txt|md")
	cmd.Flags().BoolVar(&withReport, "report", false, "generate the AI report")
	return cmd
}

func newPolishCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "polish <note>",
		Short: "Rewrite an observation note in professional register",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeLog, err := loadApp(cmd.Context(), flags, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			out, err := app.AssistantCLI.Polish(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			return nil
		},
	}
}

func newSubjectsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List configured subjects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			for _, s := range cfg.Subjects {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			redacted := cfg.Redacted()
			raw, err := yaml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, _ = cmd.OutOrStdout().Write(raw)
			if redacted.Assistant.APIKey != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# api key from $%s: %s\n", cfg.Assistant.APIKeyEnv, redacted.Assistant.APIKey)
			}
			return nil
		},
	})
	return cfgCmd
}
