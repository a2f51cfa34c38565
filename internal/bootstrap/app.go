package bootstrap

import (
	"time"

	"go.uber.org/fx"

	"petclinic-acceptance/internal/browser"
	"petclinic-acceptance/internal/config"
	"petclinic-acceptance/internal/console"
	"petclinic-acceptance/internal/pages"
	"petclinic-acceptance/internal/ports"
	"petclinic-acceptance/internal/usecase"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(browser.NewPlaywrightLauncher, fx.As(new(browser.Launcher))),
			fx.Annotate(browser.NewBrowser, fx.As(new(ports.Browser))),
			pages.NewSite,

			usecase.NewUsecase,

			console.NewReporter,
		),

		fx.Invoke(
			runScenarios,
		),

		fx.StartTimeout(10*time.Second),
		fx.StopTimeout(30*time.Second),
	)
}
