package bootstrap

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"petclinic-acceptance/internal/config"
	"petclinic-acceptance/internal/console"
	"petclinic-acceptance/internal/usecase"
)

// runner runs the configured scenarios once in the background and asks the app to shut
// down when they finish.
type runner struct {
	cfg        *config.Config
	service    *usecase.Service
	reporter   *console.Reporter
	shutdowner fx.Shutdowner
	logger     *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func newRunner(
	cfg *config.Config,
	service *usecase.Service,
	reporter *console.Reporter,
	shutdowner fx.Shutdowner,
	logger *zap.Logger,
) *runner {
	return &runner{
		cfg:        cfg,
		service:    service,
		reporter:   reporter,
		shutdowner: shutdowner,
		logger:     logger,
	}
}

func (r *runner) start() {
	r.logger.Info("Starting acceptance run...", zap.Strings("scenarios", r.cfg.SUTConfig.Scenarios))

	r.reporter.Banner(r.cfg.SUTConfig.Host, r.service.Scenarios.Scenarios())

	var ctx context.Context
	ctx, r.cancel = context.WithCancel(context.Background())
	r.done = make(chan struct{})

	go r.run(ctx)
}

func (r *runner) run(ctx context.Context) {
	defer close(r.done)

	runs, err := r.service.Scenarios.RunAll(ctx, r.cfg.SUTConfig.Scenarios)
	if err != nil {
		r.logger.Error("Acceptance run failed", zap.Error(err))
	}

	code := 0
	if r.reporter.Summary(runs) > 0 || err != nil {
		code = 1
	}

	if err := r.shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
		r.logger.Error("Failed to request shutdown", zap.Error(err))
	}
}

// stop cancels the run and waits for it. The browser is closed only once the run goroutine
// has returned; if ctx expires first the session is left to the goroutine that owns it.
func (r *runner) stop(ctx context.Context) error {
	r.logger.Info("Shutting down acceptance runner...")

	if r.cancel != nil {
		r.cancel()

		select {
		case <-r.done:
		case <-ctx.Done():
			r.logger.Warn("Scenario run did not stop in time, leaving the browser open")

			return nil
		}
	}

	if err := r.service.Browser.Close(ctx); err != nil {
		r.logger.Error("Failed to close browser", zap.Error(err))
	}

	return nil
}

// runScenarios hooks the runner into the app lifecycle. The tracer provider is requested so
// spans are exported and flushed after the run stops.
func runScenarios(
	lc fx.Lifecycle,
	_ *sdktrace.TracerProvider,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	service *usecase.Service,
	reporter *console.Reporter,
	logger *zap.Logger,
) {
	r := newRunner(cfg, service, reporter, shutdowner, logger)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			r.start()

			return nil
		},
		OnStop: r.stop,
	})
}
