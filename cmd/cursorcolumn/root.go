package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/cursorcolumn/internal/app"
	"github.com/dshills/cursorcolumn/internal/config/loader"
	"github.com/dshills/cursorcolumn/internal/logging"
	"github.com/dshills/cursorcolumn/internal/renderer/backend"
)

type rootFlags struct {
	config    string
	logLevel  string
	logFile   string
	logFormat string
	theme     string
	noWatch   bool
}

func rootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "cursorcolumn [file]",
		Short: "View a file with a cursor column marker",
		Long: `View a text file in the terminal with a translucent vertical strip
marking the cursor's column.

Settings are loaded in the following order (later sources override earlier):
  1. Built-in defaults
  2. The settings file (--config, TOML, YAML or JSON)
  3. Command line flags

Environment variables:
  CURSORCOLUMN_CONFIG          Settings file path
  CURSORCOLUMN_LOG_LEVEL       debug, info, warn, error (default: info)
  CURSORCOLUMN_LOG_FILE        Log file (default: cursorcolumn.log)
  CURSORCOLUMN_LOG_FORMAT      text, json (default: text)

Keys:
  arrows, h j k l    move          PgUp, PgDn      page
  Ctrl-E, Ctrl-Y     scroll        Home/0, End/$   line start, end
  t                  cycle theme   c               toggle marker
  z                  toggle fold   Ctrl-S          save settings
  q, Esc, Ctrl-C     quit`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnv(cmd, &flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return run(cmd.Context(), flags, file)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "settings file (.toml, .yaml, .json)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "log file path")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVarP(&flags.theme, "theme", "t", "", "theme kind: dark, light, high-contrast, high-contrast-light")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "do not reload the settings file when it changes")

	cmd.AddCommand(versionCmd())
	return cmd
}

// applyEnv fills flags the user did not set from the environment.
func applyEnv(cmd *cobra.Command, flags *rootFlags) error {
	env, err := loader.LoadEnv()
	if err != nil {
		return err
	}
	fill := func(name string, dst *string, value string) {
		if !cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	fill("config", &flags.config, env.Config)
	fill("log-level", &flags.logLevel, env.LogLevel)
	fill("log-file", &flags.logFile, env.LogFile)
	fill("log-format", &flags.logFormat, env.LogFormat)
	return nil
}

func run(ctx context.Context, flags rootFlags, file string) error {
	logger, closeLog, err := openLogger(flags)
	if err != nil {
		return err
	}
	defer closeLog()

	application, err := app.New(app.Options{
		ConfigPath: flags.config,
		File:       file,
		Theme:      flags.theme,
		Watch:      !flags.noWatch,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer application.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx, term)
}

// openLogger writes logs to a file so the terminal stays clean.
func openLogger(flags rootFlags) (*logging.Logger, func(), error) {
	if flags.logFile == "" {
		return logging.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(flags.logLevel),
		Output: f,
		Format: logging.Format(flags.logFormat),
	})
	return logger, func() { _ = f.Close() }, nil
}
