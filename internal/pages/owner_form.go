package pages

import (
	"context"
	"strings"

	"petclinic-acceptance/internal/ports"
)

const (
	fieldFirstName    = "id:firstName"
	fieldLastName     = "id:lastName"
	fieldAddress      = "id:address"
	fieldCity         = "id:city"
	fieldTelephone    = "id:telephone"
	btnAddOwnerSubmit = "css:#add-owner-form button"
	fieldErrorMessage = "xpath://input[@id='%s']/../../span[@class='help-inline']"
)

type OwnerForm struct {
	browser ports.Browser
}

func NewOwnerForm(browser ports.Browser) *OwnerForm {
	return &OwnerForm{browser: browser}
}

func (f *OwnerForm) SetFirstName(ctx context.Context, value string) error {
	return f.browser.Write(ctx, fieldFirstName, value)
}

func (f *OwnerForm) SetLastName(ctx context.Context, value string) error {
	return f.browser.Write(ctx, fieldLastName, value)
}

func (f *OwnerForm) SetAddress(ctx context.Context, value string) error {
	return f.browser.Write(ctx, fieldAddress, value)
}

func (f *OwnerForm) SetCity(ctx context.Context, value string) error {
	return f.browser.Write(ctx, fieldCity, value)
}

func (f *OwnerForm) SetTelephone(ctx context.Context, value string) error {
	return f.browser.Write(ctx, fieldTelephone, value)
}

func (f *OwnerForm) AddOwner(ctx context.Context) error {
	return f.browser.Click(ctx, btnAddOwnerSubmit)
}

// FieldErrorMessage reads the validation message under the input labelled field.
func (f *OwnerForm) FieldErrorMessage(ctx context.Context, field string) (string, error) {
	return f.browser.Text(ctx, fieldErrorMessage, LabelToID(field))
}

func (f *OwnerForm) CheckFieldErrorMessage(ctx context.Context, field, expected string) error {
	const op = "OwnerForm.CheckFieldErrorMessage"

	msg, err := f.FieldErrorMessage(ctx, field)
	if err != nil {
		return err
	}

	return checkContains(op, field+" error message", expected, msg)
}

// LabelToID maps a form label to its input id: "First Name" -> "firstName".
// Only the first word is lowercased; the rest are joined as written.
func LabelToID(label string) string {
	words := strings.Split(label, " ")

	return strings.ToLower(words[0]) + strings.Join(words[1:], "")
}
