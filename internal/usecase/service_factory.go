package usecase

import (
	"petclinic-acceptance/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateScenarioService() adapters.ScenarioService {
	return NewScenarioService(ScenarioServiceParams{
		Config: f.deps.Config,
		Logger: f.deps.Logger,
		Site:   f.deps.Site,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
