package usecase

import (
	"petclinic-acceptance/internal/config"
	"petclinic-acceptance/internal/pages"
	"petclinic-acceptance/internal/ports"
	"petclinic-acceptance/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Scenarios adapters.ScenarioService
	Browser   adapters.BrowserService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Config  *config.Config
	Browser ports.Browser
	Site    *pages.Site
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Scenarios: factory.CreateScenarioService(),
		Browser:   factory.CreateBrowserService(),
	}
}
