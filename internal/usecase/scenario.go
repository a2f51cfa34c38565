package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"petclinic-acceptance/internal/config"
	"petclinic-acceptance/internal/entity"
	"petclinic-acceptance/internal/pages"
	"petclinic-acceptance/pkg/apperr"
	"petclinic-acceptance/pkg/logg"
	"petclinic-acceptance/pkg/tracing"
)

const (
	scenarioServiceName = "ScenarioService"
	scenarioTracer      = "usecase.scenario"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// StepFunc is one scenario step acting on the page-object tree.
type StepFunc func(ctx context.Context, site *pages.Site) error

type Step struct {
	Name string
	Run  StepFunc
}

type Scenario struct {
	Name  string
	Steps []Step
}

// ScenarioService runs scenarios one at a time against a single Site. Every run opens the
// application before its first step and closes the browser after its last one, whatever
// the outcome.
type ScenarioService struct {
	config    *config.Config
	logger    *zap.Logger
	site      *pages.Site
	tracer    trace.Tracer
	scenarios []Scenario
}

type ScenarioServiceParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Site   *pages.Site
}

func NewScenarioService(params ScenarioServiceParams) *ScenarioService {
	return NewScenarioServiceFor(params, OwnerScenarios(TextsFrom(params.Config.TextConfig)))
}

// NewScenarioServiceFor runs the given scenarios instead of the built-in owner scenarios.
func NewScenarioServiceFor(params ScenarioServiceParams, scenarios []Scenario) *ScenarioService {
	return &ScenarioService{
		config:    params.Config,
		logger:    params.Logger.With(zap.String(logg.Layer, scenarioServiceName)),
		site:      params.Site,
		tracer:    otel.Tracer(scenarioTracer),
		scenarios: scenarios,
	}
}

func (s *ScenarioService) Scenarios() []string {
	names := make([]string, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		names = append(names, sc.Name)
	}

	return names
}

// RunAll runs the named scenarios in registration order, or every scenario when names is
// empty. A failing scenario does not stop the others; the returned error joins all failures.
func (s *ScenarioService) RunAll(ctx context.Context, names []string) ([]*entity.Run, error) {
	const op = "RunAll"

	selected, err := s.selectScenarios(op, names)
	if err != nil {
		return nil, err
	}

	runs := make([]*entity.Run, 0, len(selected))

	var errs []error

	for _, sc := range selected {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())

			break
		}

		run, err := s.Run(ctx, sc)
		runs = append(runs, run)

		if err != nil {
			errs = append(errs, err)
		}
	}

	return runs, errors.Join(errs...)
}

func (s *ScenarioService) selectScenarios(op string, names []string) ([]Scenario, error) {
	wanted := make(map[string]bool)

	for _, n := range names {
		if n != "" {
			wanted[n] = true
		}
	}

	if len(wanted) == 0 {
		return s.scenarios, nil
	}

	selected := make([]Scenario, 0, len(wanted))

	for _, sc := range s.scenarios {
		if wanted[sc.Name] {
			selected = append(selected, sc)
			delete(wanted, sc.Name)
		}
	}

	for name := range wanted {
		return nil, apperr.InvalidReqError(op, "scenario", fmt.Errorf("%w: %q", ErrUnknownScenario, name))
	}

	return selected, nil
}

// Run executes one scenario. Steps stop at the first failure and the remaining ones are
// recorded as skipped.
func (s *ScenarioService) Run(ctx context.Context, sc Scenario) (run *entity.Run, err error) {
	const op = "Run"

	run = &entity.Run{
		ID:        uuid.New(),
		Scenario:  sc.Name,
		Status:    entity.RunStatusRunning,
		StartedAt: time.Now(),
		Steps:     make([]entity.Step, 0, len(sc.Steps)+2),
	}

	logger := s.logger.With(zap.String(logg.Operation, op),
		zap.String(logg.Scenario, sc.Name),
		zap.String(logg.RunID, run.ID.String()))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("scenario", sc.Name),
		attribute.String("run_id", run.ID.String()))
	defer func() {
		step.End(err)
	}()

	logger.Info("Scenario started")

	err = s.record(ctx, run, entity.StepKindBefore, "open application", s.before)

	for _, st := range sc.Steps {
		if err != nil {
			run.Steps = append(run.Steps, entity.Step{
				ID:        uuid.New(),
				Kind:      entity.StepKindStep,
				Name:      st.Name,
				Timestamp: time.Now(),
				Skipped:   true,
			})

			continue
		}

		step.AddEvent("step", attribute.String("name", st.Name))
		err = s.record(ctx, run, entity.StepKindStep, st.Name, st.Run)
	}

	afterErr := s.record(ctx, run, entity.StepKindAfter, "close browser", s.after)

	completedAt := time.Now()
	run.CompletedAt = &completedAt

	err = errors.Join(err, afterErr)
	if err != nil {
		run.Status = entity.RunStatusFailed
		run.Error = err.Error()

		if st := run.FailedStep(); st != nil {
			logger = logger.With(zap.String(logg.Step, st.Name))
		}

		logger.Error("Scenario failed", zap.Error(err))

		return run, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaScenario: sc.Name,
		})
	}

	run.Status = entity.RunStatusPassed
	logger.Info("Scenario passed", zap.Duration(logg.Elapsed, completedAt.Sub(run.StartedAt)))

	return run, nil
}

func (s *ScenarioService) before(ctx context.Context, site *pages.Site) error {
	if err := site.Open(ctx, s.config.SUTConfig.Host); err != nil {
		return err
	}

	return site.CheckTitle(ctx, s.config.SUTConfig.Title)
}

func (s *ScenarioService) after(ctx context.Context, site *pages.Site) error {
	return site.Close(ctx)
}

func (s *ScenarioService) record(ctx context.Context, run *entity.Run, kind entity.StepKind, name string, fn StepFunc) error {
	started := time.Now()
	err := fn(ctx, s.site)

	st := entity.Step{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		Timestamp: started,
		Duration:  time.Since(started),
		Success:   err == nil,
	}

	if err != nil {
		st.Error = err.Error()
		s.logger.Warn("Step failed",
			zap.String(logg.Scenario, run.Scenario),
			zap.String(logg.Step, name),
			zap.Error(err))
	} else {
		s.logger.Debug("Step passed", zap.String(logg.Scenario, run.Scenario), zap.String(logg.Step, name))
	}

	run.Steps = append(run.Steps, st)

	return err
}
