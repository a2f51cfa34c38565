package pages

import (
	"context"

	"petclinic-acceptance/internal/ports"
)

const (
	fieldFindByLastName = "id:lastName"
	btnFindOwner        = "xpath://button[contains(normalize-space(text()), 'Find Owner')]"
	btnAddOwnerLink     = "xpath://a[contains(normalize-space(text()), 'Add Owner')]"
)

type OwnerList struct {
	browser ports.Browser
}

func NewOwnerList(browser ports.Browser) *OwnerList {
	return &OwnerList{browser: browser}
}

func (l *OwnerList) SetLastNameToFind(ctx context.Context, value string) error {
	return l.browser.Write(ctx, fieldFindByLastName, value)
}

func (l *OwnerList) FindOwner(ctx context.Context) error {
	return l.browser.Click(ctx, btnFindOwner)
}

func (l *OwnerList) AddOwner(ctx context.Context) error {
	return l.browser.Click(ctx, btnAddOwnerLink)
}
