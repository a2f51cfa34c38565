package browser

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"petclinic-acceptance/internal/config"
	"petclinic-acceptance/internal/selector"
	"petclinic-acceptance/pkg/apperr"
	"petclinic-acceptance/pkg/logg"
	"petclinic-acceptance/pkg/tracing"
)

const (
	browserName   = "Browser"
	browserTracer = "browser.facade"
)

// Browser is the entry point for page objects: it resolves selector strings, waits for the
// element and performs the action. Lower-layer errors are returned unchanged.
type Browser struct {
	session *Session
	finder  *Finder
	logger  *zap.Logger
	tracer  trace.Tracer
}

type Params struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Launcher Launcher
}

func NewBrowser(params Params) (*Browser, error) {
	bc := params.Config.BrowserConfig

	return New(SessionSettings{
		Engine:   bc.Type,
		Locale:   bc.Lang,
		Headless: bc.Headless,
		Policy:   NewPolicy(bc.Timeout, bc.Poll, bc.Delay),

		ActionTimeout: bc.ActionTimeout,
	}, params.Launcher, params.Logger)
}

func New(settings SessionSettings, launcher Launcher, logger *zap.Logger) (*Browser, error) {
	session, err := NewSession(settings, launcher, logger)
	if err != nil {
		return nil, err
	}

	b := &Browser{
		session: session,
		finder:  NewFinder(settings.Policy, logger),
		logger:  logger.With(zap.String(logg.Layer, browserName)),
		tracer:  otel.Tracer(browserTracer),
	}

	b.logger.Info("Browser configured",
		zap.String(logg.Engine, settings.Engine),
		zap.String(logg.Locale, settings.Locale),
		zap.String(logg.Headless, settings.Headless),
		zap.Object("policy", settings.Policy))

	return b, nil
}

func (b *Browser) State() State {
	return b.session.State()
}

func (b *Browser) Open(ctx context.Context, url string) error {
	return b.session.Open(ctx, url)
}

func (b *Browser) OpenWithGeometry(ctx context.Context, url, headless string) error {
	return b.session.OpenWithGeometry(ctx, url, headless)
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	return b.session.Navigate(ctx, url)
}

func (b *Browser) Title(ctx context.Context) (string, error) {
	return b.session.Title(ctx)
}

func (b *Browser) Close(ctx context.Context) error {
	return b.session.Close(ctx)
}

// Write types value into the element matched by sel.
func (b *Browser) Write(ctx context.Context, sel, value string, params ...any) (err error) {
	const op = "Write"

	ctx, step := b.startAction(ctx, op, sel)
	defer func() {
		step.End(err)
	}()

	el, loc, err := b.find(ctx, op, sel, params)
	if err != nil {
		return err
	}

	if err := el.SendKeys(value); err != nil {
		return actionFailed(op, "send_keys_failed", loc, err)
	}

	return nil
}

func (b *Browser) Click(ctx context.Context, sel string, params ...any) (err error) {
	const op = "Click"

	ctx, step := b.startAction(ctx, op, sel)
	defer func() {
		step.End(err)
	}()

	el, loc, err := b.find(ctx, op, sel, params)
	if err != nil {
		return err
	}

	if err := el.Click(); err != nil {
		return actionFailed(op, "click_failed", loc, err)
	}

	return nil
}

// Text returns the visible text of the element matched by sel.
func (b *Browser) Text(ctx context.Context, sel string, params ...any) (text string, err error) {
	const op = "Text"

	ctx, step := b.startAction(ctx, op, sel)
	defer func() {
		step.End(err)
	}()

	el, loc, err := b.find(ctx, op, sel, params)
	if err != nil {
		return "", err
	}

	text, err = el.Text()
	if err != nil {
		return "", actionFailed(op, "text_failed", loc, err)
	}

	return text, nil
}

func (b *Browser) startAction(ctx context.Context, op, sel string) (context.Context, *tracing.Span) {
	logger := b.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, sel))

	return tracing.StartSpan(ctx, b.tracer, logger, op, attribute.String("selector", sel))
}

// find checks the session state before resolving, so a closed session reports invalid state
// even for a malformed selector.
func (b *Browser) find(ctx context.Context, op, sel string, params []any) (Element, selector.Locator, error) {
	driver, err := b.session.active(op)
	if err != nil {
		return nil, selector.Locator{}, err
	}

	loc, err := selector.Resolve(sel, params...)
	if err != nil {
		return nil, selector.Locator{}, err
	}

	el, err := b.finder.Locate(ctx, driver, loc, params)
	if err != nil {
		return nil, loc, err
	}

	return el, loc, nil
}

func actionFailed(op, reason string, loc selector.Locator, err error) error {
	return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
		apperr.MetaReason:   reason,
		apperr.MetaStage:    apperr.StageInteraction,
		apperr.MetaSelector: loc.String(),
	})
}
