package browser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"petclinic-acceptance/pkg/apperr"
)

type Engine string

const (
	EngineChrome  Engine = "chrome"
	EngineFirefox Engine = "firefox"
)

var (
	ErrUnsupportedEngine = errors.New("unsupported browser engine")
	ErrInvalidGeometry   = errors.New("headless geometry must be \"<width>,<height>\"")
)

// optionsBuilder turns locale and geometry into engine-specific launch options.
type optionsBuilder func(locale string, geometry Geometry) LaunchOptions

var builders = map[Engine]optionsBuilder{
	EngineChrome:  chromeOptions,
	EngineFirefox: firefoxOptions,
}

func ParseEngine(s string) (Engine, error) {
	const op = "browser.ParseEngine"

	e := Engine(s)
	if _, ok := builders[e]; !ok {
		return "", apperr.Wrap(op, apperr.CodeUnsupportedEngine,
			fmt.Errorf("%w: %q", ErrUnsupportedEngine, s), map[string]any{
				apperr.MetaEngine: s,
				apperr.MetaStage:  apperr.StageSession,
			})
	}

	return e, nil
}

// Geometry is the window size used in headless mode. The zero value means windowed.
type Geometry struct {
	Width  int
	Height int
}

func (g Geometry) IsZero() bool {
	return g.Width == 0 && g.Height == 0
}

func (g Geometry) String() string {
	if g.IsZero() {
		return ""
	}

	return strconv.Itoa(g.Width) + "," + strconv.Itoa(g.Height)
}

// ParseGeometry reads "<width>,<height>". Blank input yields the zero Geometry.
func ParseGeometry(s string) (Geometry, error) {
	const op = "browser.ParseGeometry"

	s = strings.TrimSpace(s)
	if s == "" {
		return Geometry{}, nil
	}

	w, h, found := strings.Cut(s, ",")
	if !found {
		return Geometry{}, apperr.InvalidReqError(op, "headless", fmt.Errorf("%w: %q", ErrInvalidGeometry, s))
	}

	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))

	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return Geometry{}, apperr.InvalidReqError(op, "headless", fmt.Errorf("%w: %q", ErrInvalidGeometry, s))
	}

	return Geometry{Width: width, Height: height}, nil
}

// LaunchOptions is the engine-neutral result of an options builder.
type LaunchOptions struct {
	Engine   Engine
	Locale   string
	Headless bool
	Args     []string
	Prefs    map[string]any
	// Viewport is nil when the window should keep the size the engine opens it with.
	Viewport *Geometry
	// ActionTimeout bounds one interaction with an element the Finder has already located.
	// Navigation is never bounded.
	ActionTimeout time.Duration
}

// BuildOptions selects the builder for engine.
func BuildOptions(engine Engine, locale string, geometry Geometry) (LaunchOptions, error) {
	build, ok := builders[engine]
	if !ok {
		_, err := ParseEngine(string(engine))

		return LaunchOptions{}, err
	}

	return build(locale, geometry), nil
}

// https://github.com/GoogleChrome/chrome-launcher/blob/main/docs/chrome-flags-for-tools.md
func chromeOptions(locale string, geometry Geometry) LaunchOptions {
	opts := LaunchOptions{
		Engine: EngineChrome,
		Locale: locale,
		Args:   []string{"--lang=" + locale},
	}

	if geometry.IsZero() {
		opts.Args = append(opts.Args, "--start-maximized")

		return opts
	}

	opts.Headless = true
	opts.Args = append(opts.Args, "--window-size="+geometry.String())
	opts.Viewport = &geometry

	return opts
}

func firefoxOptions(locale string, geometry Geometry) LaunchOptions {
	opts := LaunchOptions{
		Engine: EngineFirefox,
		Locale: locale,
		Prefs: map[string]any{
			"intl.accept_languages": locale,
		},
	}

	if geometry.IsZero() {
		return opts
	}

	opts.Headless = true
	opts.Args = []string{
		"-width=" + strconv.Itoa(geometry.Width),
		"-height=" + strconv.Itoa(geometry.Height),
	}
	opts.Viewport = &geometry

	return opts
}
