package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"petclinic-acceptance/internal/selector"
	"petclinic-acceptance/pkg/apperr"
	"petclinic-acceptance/pkg/logg"
	"petclinic-acceptance/pkg/tracing"
)

const (
	finderName   = "Finder"
	finderTracer = "browser.finder"
)

var ErrElementNotFound = errors.New("element not found")

// Finder waits for elements to be present according to a Policy.
type Finder struct {
	policy Policy
	logger *zap.Logger
	tracer trace.Tracer
}

func NewFinder(policy Policy, logger *zap.Logger) *Finder {
	return &Finder{
		policy: policy,
		logger: logger.With(zap.String(logg.Layer, finderName)),
		tracer: otel.Tracer(finderTracer),
	}
}

// Locate sleeps for the policy delay, then checks for a match every poll interval. The last
// wait is shortened so the final check lands on the deadline; if it still finds nothing the
// call fails with ErrElementNotFound after at least the policy timeout.
func (f *Finder) Locate(ctx context.Context, d Driver, loc selector.Locator, params []any) (el Element, err error) {
	const op = "Locate"
	logger := f.logger.With(zap.String(logg.Operation, op), zap.Stringer(logg.Selector, loc))

	ctx, step := tracing.StartSpan(ctx, f.tracer, logger, op,
		attribute.String("selector", loc.String()),
		attribute.Int64("timeout_ms", f.policy.Timeout().Milliseconds()),
		attribute.Int64("poll_ms", f.policy.Poll().Milliseconds()))
	defer func() {
		step.End(err)
	}()

	if err := sleep(ctx, f.policy.Delay()); err != nil {
		return nil, f.cancelled(op, loc, params, err)
	}

	logger.Info("Looking for element",
		zap.Any(logg.Params, params),
		zap.Duration(logg.Timeout, f.policy.Timeout()),
		zap.Duration(logg.Poll, f.policy.Poll()))

	engineSelector := loc.Engine()
	start := time.Now()

	for attempt := 1; ; attempt++ {
		n, err := d.Count(engineSelector)
		if err != nil {
			return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
				apperr.MetaReason:   "presence_check_failed",
				apperr.MetaStage:    apperr.StageLocate,
				apperr.MetaSelector: loc.String(),
				apperr.MetaParams:   params,
			})
		}

		elapsed := time.Since(start)

		step.SetAttributes(attribute.Int("attempts", attempt), attribute.Int64("elapsed_ms", elapsed.Milliseconds()))

		if n > 0 {
			step.AddEvent("element present", attribute.Int("attempt", attempt))
			logger.Debug("Element present", zap.Int(logg.Attempt, attempt), zap.Duration(logg.Elapsed, elapsed))

			return d.Element(engineSelector), nil
		}

		remaining := f.policy.Timeout() - elapsed
		if remaining <= 0 {
			logger.Warn("Element not found", zap.Int(logg.Attempt, attempt), zap.Duration(logg.Elapsed, elapsed))

			return nil, apperr.Wrap(op, apperr.CodeElementNotFound,
				fmt.Errorf("%w: %s after %s", ErrElementNotFound, loc, elapsed.Round(time.Millisecond)), map[string]any{
					apperr.MetaStage:    apperr.StageLocate,
					apperr.MetaSelector: loc.String(),
					apperr.MetaParams:   params,
					apperr.MetaElapsed:  elapsed,
				})
		}

		logger.Debug("Element absent", zap.Int(logg.Attempt, attempt), zap.Duration(logg.Elapsed, elapsed))

		if err := sleep(ctx, min(f.policy.Poll(), remaining)); err != nil {
			return nil, f.cancelled(op, loc, params, err)
		}
	}
}

func (f *Finder) cancelled(op string, loc selector.Locator, params []any, err error) error {
	return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
		apperr.MetaReason:   "locate_cancelled",
		apperr.MetaStage:    apperr.StageLocate,
		apperr.MetaSelector: loc.String(),
		apperr.MetaParams:   params,
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
