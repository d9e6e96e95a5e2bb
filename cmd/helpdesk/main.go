package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/cli"
	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		showMetrics bool
		logLevel    string
		apiURL      string
		storage     string
	)
	global := pflag.NewFlagSet("helpdesk", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	global.BoolVar(&showMetrics, "metrics", false, "print request metrics after the command")
	global.StringVar(&logLevel, "log-level", "", "log level (default warn, or LOG_LEVEL)")
	global.StringVar(&apiURL, "api-url", "", "API base URL (default HELPDESK_API_BASE_URL)")
	global.StringVar(&storage, "storage", "", "token storage: sqlite, redis or memory")
	if err := global.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printGlobalFlags(stdout, global)
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	switch {
	case logLevel != "":
		cfg.Logger.Level = logLevel
	case os.Getenv("LOG_LEVEL") == "":
		cfg.Logger.Level = "warn"
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if storage != "" {
		cfg.Storage.Backend = storage
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cli.Options{
		Config: cfg,
		Logger: logger,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()

	root := app.Root()
	rest := global.Args()
	if len(rest) == 0 {
		root.PrintHelp(stdout)
		printGlobalFlags(stdout, global)
		return nil
	}
	cmdErr := root.Execute(ctx, rest, stdout)
	if showMetrics {
		if err := app.PrintMetrics(); err != nil {
			logger.Warn("gather metrics", zap.Error(err))
		}
	}
	return cmdErr
}

func printGlobalFlags(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "\nGlobal flags:\n%s", fs.FlagUsages())
}
