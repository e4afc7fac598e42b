package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/drawer/internal/config"
	"github.com/tengjizhang/drawer/internal/i18n"
	"github.com/tengjizhang/drawer/internal/sidebar"
)

// Execute loads the configuration and runs the root command until it
// finishes or the process is interrupted.
func Execute() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(cfg).ExecuteContext(ctx)
}

func NewRootCmd(cfg config.Config) *cobra.Command {
	var output string
	var logLevel string
	var outFmt OutputFormat
	var app *App

	output = string(OutputTable)
	logLevel = cfg.LogLevel.String()

	getApp := func() *App { return app }
	getOutput := func() OutputFormat { return outFmt }
	getLabels := func() sidebar.Labels { return i18n.Labels(i18n.Parse(cfg.Language)) }

	cmd := &cobra.Command{
		Use:           "drawer",
		Short:         "Subscription sidebar for a feed reader server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsedFmt, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			outFmt = parsedFmt
			level, err := config.ParseLogLevel(logLevel)
			if err != nil {
				return fmt.Errorf("%w: %v", errInvalidFlag, err)
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			if !requiresApp(cmd) {
				return nil
			}
			if app != nil {
				return nil
			}
			a, err := NewApp(cfg, logger)
			if err != nil {
				return err
			}
			a.explicitServer = cmd.Flags().Changed("server")
			app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	cmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Reader API base URL")
	cmd.PersistentFlags().StringVar(&cfg.Language, "lang", cfg.Language, "Language of the fixed sidebar labels")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", output, "Output format: table, json, wide")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")

	cmd.AddCommand(newLoginCmd(getApp, getOutput))
	cmd.AddCommand(newLogoutCmd(getApp, getOutput))
	cmd.AddCommand(newRowsCmd(getApp, getOutput, getLabels))
	cmd.AddCommand(newFaviconCmd(getApp, getOutput))
	cmd.AddCommand(newBrowseCmd(getApp, getLabels))

	return cmd
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseOutputFormat(raw string) (OutputFormat, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch OutputFormat(s) {
	case OutputTable, OutputJSON, OutputWide:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("%w: invalid output format %q (expected table|json|wide)", errInvalidFlag, raw)
	}
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" {
			return false
		}
	}
	return true
}
