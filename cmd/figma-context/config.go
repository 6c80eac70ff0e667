package main

import (
	"io"
	"os"

	figmacontext "github.com/kataras/figma-context"
	"github.com/kataras/figma-context/pkg/config"
	"github.com/kataras/figma-context/pkg/logging"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// loadConfig reads the configuration file, lets explicitly set flags
// override it, falls back to the environment for the token and validates
// the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.AccessToken = accessToken
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("debug-dir") {
		cfg.DebugLogDir = debugDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("format") {
		cfg.Format = outputFormat
	}

	cfg.ApplyEnv()

	if err := cfg.Verify(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger returns the colored terminal logger, or a zerolog logger
// writing to the console and the rotating log file when one is configured.
// Both honor the configured level.
func newLogger(cfg *config.Config) figmacontext.Logger {
	if cfg.Log.File == "" {
		return &cliLogger{out: os.Stderr, level: logging.ParseLevel(cfg.Log.Level)}
	}

	return logging.NewAdapter(logging.New(cfg.Log, os.Stderr))
}

// cliLogger implements figmacontext.Logger with colored terminal output.
// It writes to stderr so that stdout carries only the requested output.
type cliLogger struct {
	out   io.Writer
	level zerolog.Level
}

func (l *cliLogger) Infof(format string, args ...any) {
	if l.level > zerolog.InfoLevel {
		return
	}
	color.New(color.FgYellow).Fprintf(l.out, format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	if l.level > zerolog.WarnLevel {
		return
	}
	color.New(color.FgYellow).Fprintf(l.out, "⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	if l.level > zerolog.ErrorLevel {
		return
	}
	color.New(color.FgRed).Fprintf(l.out, "✗ "+format+"\n", args...)
}
