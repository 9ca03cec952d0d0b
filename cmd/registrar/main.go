// Package main is the entry point of the course registrar console.
//
// The registrar keeps courses, students and enrollments in memory for one
// session. Optional adapters mirror every enrollment event to Redis and
// append it to a PostgreSQL audit journal; neither is read back.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/course-registration/config"
	"github.com/alem-hub/course-registration/internal/application/command"
	"github.com/alem-hub/course-registration/internal/application/query"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/interface/console"
	"github.com/alem-hub/course-registration/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION AND LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: logger.ParseFormat(cfg.Observability.LogFormat),
	})
	ctx = logger.WithContext(ctx, log)

	log.Info("starting course registrar",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"features", enabledFeatures(cfg),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. EVENT BUS AND ADAPTERS
	// ─────────────────────────────────────────────────────────────────────────
	bus, err := setupEventBus(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warn("failed to close event bus", logger.Err(err))
		}
	}()

	if cfg.Features.IsEnabled(config.FeatureAuditJournal) {
		closeJournal, err := setupAuditJournal(ctx, cfg, bus, log)
		if err != nil {
			return err
		}
		defer closeJournal()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. REGISTRY AND CATALOG
	// ─────────────────────────────────────────────────────────────────────────
	registry := registration.NewRegistry()

	if err := seedRegistry(ctx, cfg, registry, bus); err != nil {
		return err
	}

	if cfg.Features.IsEnabled(config.FeatureStartupVerify) {
		if err := registry.Verify(); err != nil {
			return fmt.Errorf("registry self-check failed: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. CONSOLE
	// ─────────────────────────────────────────────────────────────────────────
	shell := console.NewShell(stdin, stdout, console.Handlers{
		Enroll:   command.NewEnrollCourseHandler(registry, bus, log),
		Drop:     command.NewDropCourseHandler(registry, bus, log),
		Courses:  query.NewListCoursesHandler(registry),
		Students: query.NewListStudentsHandler(registry),
	}, log)

	runErr := shell.Run(ctx)

	if cfg.Features.IsEnabled(config.FeatureEventMetrics) {
		if m := bus.Metrics(); m != nil {
			log.Info("event bus metrics", slog.Any("events", m.Snapshot()))
		}
	}

	if errors.Is(runErr, context.Canceled) {
		log.Info("interrupted")
		return nil
	}
	return runErr
}
