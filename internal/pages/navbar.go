package pages

import (
	"context"

	"petclinic-acceptance/internal/ports"
)

const (
	menuHome           = `xpath://a[@title="home page"]`
	menuFindOwners     = `xpath://a[@title="find owners"]`
	menuVeterinarians  = `xpath://a[@title="veterinarians"]`
	menuError          = `xpath://a[@title="trigger a RuntimeException to see how it is handled"]`
	contentPageHeading = "css:.container-fluid h2"
)

type NavBar struct {
	browser ports.Browser
}

func NewNavBar(browser ports.Browser) *NavBar {
	return &NavBar{browser: browser}
}

func (n *NavBar) Home(ctx context.Context) error {
	return n.browser.Click(ctx, menuHome)
}

func (n *NavBar) FindOwners(ctx context.Context) error {
	return n.browser.Click(ctx, menuFindOwners)
}

func (n *NavBar) Veterinarians(ctx context.Context) error {
	return n.browser.Click(ctx, menuVeterinarians)
}

func (n *NavBar) Error(ctx context.Context) error {
	return n.browser.Click(ctx, menuError)
}

// CheckTitle compares the heading of the page content, not the window title.
func (n *NavBar) CheckTitle(ctx context.Context, expected string) error {
	const op = "NavBar.CheckTitle"

	heading, err := n.browser.Text(ctx, contentPageHeading)
	if err != nil {
		return err
	}

	return checkEqual(op, "page heading", expected, heading)
}
