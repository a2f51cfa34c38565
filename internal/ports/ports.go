package ports

import (
	"context"
)

// Browser is the action surface page objects drive.
type Browser interface {
	Open(ctx context.Context, url string) error
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	Close(ctx context.Context) error
	Write(ctx context.Context, selector, value string, params ...any) error
	Click(ctx context.Context, selector string, params ...any) error
	Text(ctx context.Context, selector string, params ...any) (string, error)
}
