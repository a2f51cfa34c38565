package adapters

import (
	"context"

	"petclinic-acceptance/internal/entity"
)

type BrowserService interface {
	Open(ctx context.Context, url string) error
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	Close(ctx context.Context) error
	Write(ctx context.Context, selector, value string, params ...any) error
	Click(ctx context.Context, selector string, params ...any) error
	Text(ctx context.Context, selector string, params ...any) (string, error)
}

type ScenarioService interface {
	Scenarios() []string
	RunAll(ctx context.Context, names []string) ([]*entity.Run, error)
}
