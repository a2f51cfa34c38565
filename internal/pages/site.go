package pages

import (
	"context"

	"petclinic-acceptance/internal/ports"
)

// Site is the root of the page-object tree. It is built once and shares one browser with
// every region.
type Site struct {
	browser ports.Browser

	NavBar       *NavBar
	OwnerList    *OwnerList
	OwnerDetails *OwnerDetails
	OwnerForm    *OwnerForm
}

func NewSite(browser ports.Browser) *Site {
	return &Site{
		browser:      browser,
		NavBar:       NewNavBar(browser),
		OwnerList:    NewOwnerList(browser),
		OwnerDetails: NewOwnerDetails(browser),
		OwnerForm:    NewOwnerForm(browser),
	}
}

func (s *Site) Open(ctx context.Context, url string) error {
	return s.browser.Open(ctx, url)
}

func (s *Site) Close(ctx context.Context) error {
	return s.browser.Close(ctx)
}

// CheckTitle compares the window title.
func (s *Site) CheckTitle(ctx context.Context, expected string) error {
	const op = "Site.CheckTitle"

	title, err := s.browser.Title(ctx)
	if err != nil {
		return err
	}

	return checkEqual(op, "window title", expected, title)
}
