package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-dashboard/internal/app"
	"github.com/samvad-hq/samvad-dashboard/internal/config"
	"github.com/samvad-hq/samvad-dashboard/internal/domain"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
)

// Process exit codes.
const (
	exitOK      = 0
	exitUser    = 1
	exitAuth    = 2
	exitBackend = 3
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, openDashboard)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// openDashboard loads configuration and builds the runtime. The returned
// cleanup flushes the logger after the dashboard is closed.
func openDashboard(ctx context.Context) (dashboardAPI, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, usageErr(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger.DebugObj("dashboard starting", "config", cfg.Redacted())

	d, err := app.New(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize dashboard", "error", err.Error())
		_ = logger.Close()
		return nil, nil, err
	}
	return d, func() {
		if err := d.Close(); err != nil {
			logger.WarnObj("dashboard close failed", "error", err.Error())
		}
		_ = logger.Close()
	}, nil
}

// exitCode maps an error onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, domain.ErrInvalid):
		return exitUser
	case errors.Is(err, app.ErrReauthenticate), errors.Is(err, app.ErrPermissionDenied):
		return exitAuth
	default:
		return exitBackend
	}
}
