package pages

import (
	"context"

	"petclinic-acceptance/internal/ports"
)

const (
	successMessage = "css:#success-message span"
	cellWithValue  = "xpath://table/tbody/tr/th[text()='%s']/following-sibling::td"

	rowName      = "Name"
	rowAddress   = "Address"
	rowCity      = "City"
	rowTelephone = "Telephone"
)

// OwnerDetails reads the owner information table, one row per labelled field.
type OwnerDetails struct {
	browser ports.Browser
}

func NewOwnerDetails(browser ports.Browser) *OwnerDetails {
	return &OwnerDetails{browser: browser}
}

func (d *OwnerDetails) SuccessMessage(ctx context.Context) (string, error) {
	return d.browser.Text(ctx, successMessage)
}

func (d *OwnerDetails) CheckSuccessMessage(ctx context.Context, expected string) error {
	return d.check(ctx, "OwnerDetails.CheckSuccessMessage", "success message", expected, d.SuccessMessage)
}

func (d *OwnerDetails) Name(ctx context.Context) (string, error) {
	return d.row(ctx, rowName)
}

func (d *OwnerDetails) CheckName(ctx context.Context, expected string) error {
	return d.check(ctx, "OwnerDetails.CheckName", rowName, expected, d.Name)
}

func (d *OwnerDetails) Address(ctx context.Context) (string, error) {
	return d.row(ctx, rowAddress)
}

func (d *OwnerDetails) CheckAddress(ctx context.Context, expected string) error {
	return d.check(ctx, "OwnerDetails.CheckAddress", rowAddress, expected, d.Address)
}

func (d *OwnerDetails) City(ctx context.Context) (string, error) {
	return d.row(ctx, rowCity)
}

func (d *OwnerDetails) CheckCity(ctx context.Context, expected string) error {
	return d.check(ctx, "OwnerDetails.CheckCity", rowCity, expected, d.City)
}

func (d *OwnerDetails) Telephone(ctx context.Context) (string, error) {
	return d.row(ctx, rowTelephone)
}

func (d *OwnerDetails) CheckTelephone(ctx context.Context, expected string) error {
	return d.check(ctx, "OwnerDetails.CheckTelephone", rowTelephone, expected, d.Telephone)
}

func (d *OwnerDetails) row(ctx context.Context, title string) (string, error) {
	return d.browser.Text(ctx, cellWithValue, title)
}

func (d *OwnerDetails) check(ctx context.Context, op, what, expected string, read func(context.Context) (string, error)) error {
	actual, err := read(ctx)
	if err != nil {
		return err
	}

	return checkEqual(op, what, expected, actual)
}
