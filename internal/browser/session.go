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

	"petclinic-acceptance/pkg/apperr"
	"petclinic-acceptance/pkg/logg"
	"petclinic-acceptance/pkg/tracing"
)

const (
	sessionName   = "Session"
	sessionTracer = "browser.session"
)

var ErrInvalidState = errors.New("invalid session state")

type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}

	return "closed"
}

// Session owns at most one live Driver. It is not safe for concurrent use; one scenario
// drives one session.
type Session struct {
	engine        Engine
	locale        string
	geometry      Geometry
	actionTimeout time.Duration
	launcher      Launcher
	logger        *zap.Logger
	tracer        trace.Tracer
	driver        Driver
}

// SessionSettings are the inputs fixed for the lifetime of a Session.
type SessionSettings struct {
	Engine   string
	Locale   string
	Headless string
	Policy   Policy
	// ActionTimeout falls back to DefaultActionTimeout when not positive.
	ActionTimeout time.Duration
}

// NewSession validates the engine and geometry up front, so an unsupported engine fails
// before any driver exists.
func NewSession(settings SessionSettings, launcher Launcher, logger *zap.Logger) (*Session, error) {
	engine, err := ParseEngine(settings.Engine)
	if err != nil {
		return nil, err
	}

	geometry, err := ParseGeometry(settings.Headless)
	if err != nil {
		return nil, err
	}

	actionTimeout := settings.ActionTimeout
	if actionTimeout <= 0 {
		actionTimeout = DefaultActionTimeout
	}

	return &Session{
		engine:        engine,
		locale:        settings.Locale,
		geometry:      geometry,
		actionTimeout: actionTimeout,
		launcher:      launcher,
		logger: logger.With(zap.String(logg.Layer, sessionName),
			zap.String(logg.Engine, string(engine))),
		tracer: otel.Tracer(sessionTracer),
	}, nil
}

func (s *Session) State() State {
	if s.driver != nil {
		return StateOpen
	}

	return StateClosed
}

// Open launches a driver with the configured geometry and loads url.
func (s *Session) Open(ctx context.Context, url string) error {
	return s.open(ctx, url, s.geometry)
}

// OpenWithGeometry is Open with headless overriding the configured geometry for this
// session only. Blank headless means windowed.
func (s *Session) OpenWithGeometry(ctx context.Context, url, headless string) error {
	geometry, err := ParseGeometry(headless)
	if err != nil {
		return err
	}

	return s.open(ctx, url, geometry)
}

func (s *Session) open(ctx context.Context, url string, geometry Geometry) (err error) {
	const op = "Open"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("url", url),
		attribute.String("engine", string(s.engine)),
		attribute.String("headless", geometry.String()))
	defer func() {
		step.End(err)
	}()

	if s.driver != nil {
		return invalidState(op, StateOpen, "open called twice without close")
	}

	step.AddEvent("provisioning engine")

	if err := s.launcher.Provision(s.engine); err != nil {
		return err
	}

	opts, err := BuildOptions(s.engine, s.locale, geometry)
	if err != nil {
		return err
	}

	opts.ActionTimeout = s.actionTimeout

	step.AddEvent("launching driver")

	driver, err := s.launcher.Launch(opts)
	if err != nil {
		return err
	}

	s.driver = driver
	logger.Info("Session opened", zap.String(logg.Headless, geometry.String()), zap.String(logg.Locale, s.locale))

	return s.navigate(ctx, op, url)
}

func (s *Session) Navigate(ctx context.Context, url string) (err error) {
	const op = "Navigate"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	return s.navigate(ctx, op, url)
}

func (s *Session) navigate(_ context.Context, op, url string) error {
	if s.driver == nil {
		return invalidState(op, StateClosed, "open must be called before navigating")
	}

	if err := s.driver.Goto(url); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "goto_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	return nil
}

func (s *Session) Title(ctx context.Context) (title string, err error) {
	const op = "Title"
	logger := s.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	if s.driver == nil {
		return "", invalidState(op, StateClosed, "open must be called before reading the title")
	}

	title, err = s.driver.Title()
	if err != nil {
		return "", apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "title_failed",
			apperr.MetaStage:  apperr.StageNavigation,
		})
	}

	return title, nil
}

// Close quits the driver if one is open. The session is closed afterwards even when the
// driver reports an error on quit. Closing a closed session does nothing.
func (s *Session) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := s.logger.With(zap.String(logg.Operation, op))

	if s.driver == nil {
		return nil
	}

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	driver := s.driver
	s.driver = nil

	if err := driver.Quit(); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "quit_failed",
			apperr.MetaStage:  apperr.StageSession,
		})
	}

	logger.Info("Session closed")

	return nil
}

// active returns the live driver or an invalid-state error naming op.
func (s *Session) active(op string) (Driver, error) {
	if s.driver == nil {
		return nil, invalidState(op, StateClosed, "open must be called first")
	}

	return s.driver, nil
}

func invalidState(op string, state State, reason string) error {
	return apperr.Wrap(op, apperr.CodeInvalidState, fmt.Errorf("%w: %s", ErrInvalidState, reason), map[string]any{
		apperr.MetaState:  state.String(),
		apperr.MetaReason: reason,
		apperr.MetaStage:  apperr.StageSession,
	})
}
