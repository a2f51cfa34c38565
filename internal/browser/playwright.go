package browser

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"petclinic-acceptance/pkg/apperr"
	"petclinic-acceptance/pkg/logg"
)

const playwrightLauncherName = "PlaywrightLauncher"

var engineBrowsers = map[Engine]string{
	EngineChrome:  "chromium",
	EngineFirefox: "firefox",
}

// PlaywrightLauncher starts drivers backed by playwright-go.
type PlaywrightLauncher struct {
	logger *zap.Logger

	mu          sync.Mutex
	provisioned map[Engine]bool
}

func NewPlaywrightLauncher(logger *zap.Logger) *PlaywrightLauncher {
	return &PlaywrightLauncher{
		logger:      logger.With(zap.String(logg.Layer, playwrightLauncherName)),
		provisioned: make(map[Engine]bool),
	}
}

func runOptions(browsers ...string) *playwright.RunOptions {
	return &playwright.RunOptions{
		Browsers: browsers,
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
}

// Provision installs the playwright driver and the engine's browser once per engine kind.
// A failed install is not remembered, so a later call retries it.
func (l *PlaywrightLauncher) Provision(engine Engine) error {
	const op = "Provision"
	logger := l.logger.With(zap.String(logg.Operation, op), zap.String(logg.Engine, string(engine)))

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.provisioned[engine] {
		return nil
	}

	name, ok := engineBrowsers[engine]
	if !ok {
		_, err := ParseEngine(string(engine))

		return err
	}

	logger.Info("Installing browser", zap.String("browser", name))

	if err := playwright.Install(runOptions(name)); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_install_failed",
			apperr.MetaStage:  apperr.StageProvision,
			apperr.MetaEngine: string(engine),
		})
	}

	l.provisioned[engine] = true

	return nil
}

func (l *PlaywrightLauncher) Launch(opts LaunchOptions) (Driver, error) {
	const op = "Launch"
	logger := l.logger.With(zap.String(logg.Operation, op), zap.String(logg.Engine, string(opts.Engine)))

	pw, err := playwright.Run(runOptions(engineBrowsers[opts.Engine]))
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageSession,
		})
	}

	d := &playwrightDriver{pw: pw, logger: logger, actionTimeout: actionTimeout(opts)}

	browserType := pw.Chromium
	if opts.Engine == EngineFirefox {
		browserType = pw.Firefox
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args,
	}

	if len(opts.Prefs) > 0 {
		launchOptions.FirefoxUserPrefs = opts.Prefs
	}

	d.browser, err = browserType.Launch(launchOptions)
	if err != nil {
		return nil, d.abort(apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageSession,
		}))
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Locale: playwright.String(opts.Locale),
	}

	if opts.Viewport != nil {
		contextOptions.Viewport = &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		}
	} else {
		contextOptions.NoViewport = playwright.Bool(true)
	}

	d.context, err = d.browser.NewContext(contextOptions)
	if err != nil {
		return nil, d.abort(apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageSession,
		}))
	}

	d.page, err = d.context.NewPage()
	if err != nil {
		return nil, d.abort(apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageSession,
		}))
	}

	// Locating is bounded by the Finder alone. Page loads may take as long as they take.
	d.page.SetDefaultTimeout(float64(d.actionTimeout.Milliseconds()))
	d.page.SetDefaultNavigationTimeout(0)

	logger.Info("Browser launched",
		zap.Bool(logg.Headless, opts.Headless),
		zap.String(logg.Locale, opts.Locale),
		zap.Duration(logg.Timeout, d.actionTimeout),
		zap.Strings("args", opts.Args))

	return d, nil
}

func actionTimeout(opts LaunchOptions) time.Duration {
	if opts.ActionTimeout > 0 {
		return opts.ActionTimeout
	}

	return DefaultActionTimeout
}

// timeoutOption renders d as playwright's millisecond timeout. Zero means no limit.
func timeoutOption(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func gotoOptions() playwright.PageGotoOptions {
	return playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   timeoutOption(0),
	}
}

type playwrightDriver struct {
	logger        *zap.Logger
	pw            *playwright.Playwright
	browser       playwright.Browser
	context       playwright.BrowserContext
	page          playwright.Page
	actionTimeout time.Duration
}

func (d *playwrightDriver) Goto(url string) error {
	_, err := d.page.Goto(url, gotoOptions())

	return err
}

func (d *playwrightDriver) Title() (string, error) {
	return d.page.Title()
}

func (d *playwrightDriver) Count(selector string) (int, error) {
	return d.page.Locator(selector).Count()
}

func (d *playwrightDriver) Element(selector string) Element {
	return newPlaywrightElement(d.page.Locator(selector).First(), d.actionTimeout)
}

// Quit tears down page, context, browser and the playwright driver process, in that order.
func (d *playwrightDriver) Quit() error {
	var errs []error

	if d.context != nil {
		if err := d.context.Close(); err != nil {
			d.logger.Warn("Failed to close context", zap.Error(err))
		}
	}

	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (d *playwrightDriver) abort(err error) error {
	if qerr := d.Quit(); qerr != nil {
		d.logger.Warn("Failed to release partially launched browser", zap.Error(qerr))
	}

	return err
}

// playwrightElement passes an explicit timeout on every call so a stale or covered element
// fails within the action timeout instead of auto-waiting again.
type playwrightElement struct {
	locator playwright.Locator
	timeout *float64
}

func newPlaywrightElement(locator playwright.Locator, timeout time.Duration) *playwrightElement {
	return &playwrightElement{locator: locator, timeout: timeoutOption(timeout)}
}

func (e *playwrightElement) pressOptions() playwright.LocatorPressSequentiallyOptions {
	return playwright.LocatorPressSequentiallyOptions{Timeout: e.timeout}
}

func (e *playwrightElement) clickOptions() playwright.LocatorClickOptions {
	return playwright.LocatorClickOptions{Timeout: e.timeout}
}

func (e *playwrightElement) innerTextOptions() playwright.LocatorInnerTextOptions {
	return playwright.LocatorInnerTextOptions{Timeout: e.timeout}
}

func (e *playwrightElement) SendKeys(value string) error {
	return e.locator.PressSequentially(value, e.pressOptions())
}

func (e *playwrightElement) Click() error {
	return e.locator.Click(e.clickOptions())
}

func (e *playwrightElement) Text() (string, error) {
	return e.locator.InnerText(e.innerTextOptions())
}
