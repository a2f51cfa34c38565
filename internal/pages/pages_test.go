package pages

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petclinic-acceptance/internal/selector"
	"petclinic-acceptance/pkg/apperr"
)

type call struct {
	action   string
	selector string
	value    string
	params   []any
}

// recordingBrowser stands in for the facade; texts are keyed by resolved selector.
type recordingBrowser struct {
	calls []call
	texts map[string]string
	title string
	err   error
}

func newRecordingBrowser() *recordingBrowser {
	return &recordingBrowser{texts: make(map[string]string)}
}

func (b *recordingBrowser) Open(_ context.Context, url string) error {
	b.calls = append(b.calls, call{action: "open", value: url})
	return b.err
}

func (b *recordingBrowser) Navigate(_ context.Context, url string) error {
	b.calls = append(b.calls, call{action: "navigate", value: url})
	return b.err
}

func (b *recordingBrowser) Title(context.Context) (string, error) {
	b.calls = append(b.calls, call{action: "title"})
	return b.title, b.err
}

func (b *recordingBrowser) Close(context.Context) error {
	b.calls = append(b.calls, call{action: "close"})
	return nil
}

func (b *recordingBrowser) Write(_ context.Context, sel, value string, params ...any) error {
	b.calls = append(b.calls, call{action: "write", selector: sel, value: value, params: params})
	return b.err
}

func (b *recordingBrowser) Click(_ context.Context, sel string, params ...any) error {
	b.calls = append(b.calls, call{action: "click", selector: sel, params: params})
	return b.err
}

func (b *recordingBrowser) Text(_ context.Context, sel string, params ...any) (string, error) {
	b.calls = append(b.calls, call{action: "text", selector: sel, params: params})
	if b.err != nil {
		return "", b.err
	}

	loc, err := selector.Resolve(sel, params...)
	if err != nil {
		return "", err
	}

	return b.texts[loc.String()], nil
}

func TestSelectorsCompile(t *testing.T) {
	for _, raw := range []string{
		menuHome, menuFindOwners, menuVeterinarians, menuError, contentPageHeading,
		fieldFindByLastName, btnFindOwner, btnAddOwnerLink,
		successMessage, cellWithValue,
		fieldFirstName, fieldLastName, fieldAddress, fieldCity, fieldTelephone, btnAddOwnerSubmit, fieldErrorMessage,
	} {
		_, err := selector.Compile(raw)
		assert.NoError(t, err, raw)
	}

	for _, raw := range []string{cellWithValue, fieldErrorMessage} {
		tpl, err := selector.Compile(raw)
		require.NoError(t, err)
		assert.Equal(t, 1, tpl.Placeholders, raw)
	}
}

func TestNewSite_SharesBrowser(t *testing.T) {
	b := newRecordingBrowser()
	site := NewSite(b)

	assert.Same(t, b, site.NavBar.browser)
	assert.Same(t, b, site.OwnerList.browser)
	assert.Same(t, b, site.OwnerDetails.browser)
	assert.Same(t, b, site.OwnerForm.browser)
}

func TestSite_OpenCheckTitleClose(t *testing.T) {
	b := newRecordingBrowser()
	b.title = "PetClinic :: a Spring Framework demonstration"
	site := NewSite(b)
	ctx := context.Background()

	require.NoError(t, site.Open(ctx, "http://localhost:8080/"))
	require.NoError(t, site.CheckTitle(ctx, "PetClinic :: a Spring Framework demonstration"))

	err := site.CheckTitle(ctx, "Other")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCheckFailed, apperr.CodeOf(err))

	require.NoError(t, site.Close(ctx))
	assert.Equal(t, []string{"open", "title", "title", "close"}, actions(b.calls))
}

func TestNavBar_Clicks(t *testing.T) {
	b := newRecordingBrowser()
	nav := NewNavBar(b)
	ctx := context.Background()

	require.NoError(t, nav.Home(ctx))
	require.NoError(t, nav.FindOwners(ctx))
	require.NoError(t, nav.Veterinarians(ctx))
	require.NoError(t, nav.Error(ctx))

	assert.Equal(t, []string{menuHome, menuFindOwners, menuVeterinarians, menuError}, selectors(b.calls))
}

func TestNavBar_CheckTitle(t *testing.T) {
	b := newRecordingBrowser()
	b.texts["css:.container-fluid h2"] = "Owner Information"
	nav := NewNavBar(b)
	ctx := context.Background()

	require.NoError(t, nav.CheckTitle(ctx, "Owner Information"))

	err := nav.CheckTitle(ctx, "Owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected "Owner", got "Owner Information"`)
}

func TestOwnerList(t *testing.T) {
	b := newRecordingBrowser()
	list := NewOwnerList(b)
	ctx := context.Background()

	require.NoError(t, list.SetLastNameToFind(ctx, "Franklin"))
	require.NoError(t, list.FindOwner(ctx))
	require.NoError(t, list.AddOwner(ctx))

	require.Len(t, b.calls, 3)
	assert.Equal(t, call{action: "write", selector: "id:lastName", value: "Franklin"}, b.calls[0])
	assert.Equal(t, btnFindOwner, b.calls[1].selector)
	assert.Equal(t, btnAddOwnerLink, b.calls[2].selector)
}

func TestOwnerDetails(t *testing.T) {
	b := newRecordingBrowser()
	b.texts["css:#success-message span"] = "New Owner Created"
	b.texts["xpath://table/tbody/tr/th[text()='Name']/following-sibling::td"] = "George Franklin"
	b.texts["xpath://table/tbody/tr/th[text()='Address']/following-sibling::td"] = "110 W. Liberty St."
	b.texts["xpath://table/tbody/tr/th[text()='City']/following-sibling::td"] = "Madison"
	b.texts["xpath://table/tbody/tr/th[text()='Telephone']/following-sibling::td"] = "6085551023"

	details := NewOwnerDetails(b)
	ctx := context.Background()

	require.NoError(t, details.CheckSuccessMessage(ctx, "New Owner Created"))
	require.NoError(t, details.CheckName(ctx, "George Franklin"))
	require.NoError(t, details.CheckAddress(ctx, "110 W. Liberty St."))
	require.NoError(t, details.CheckCity(ctx, "Madison"))
	require.NoError(t, details.CheckTelephone(ctx, "6085551023"))

	err := details.CheckCity(ctx, "Sun Prairie")
	assert.Equal(t, apperr.CodeCheckFailed, apperr.CodeOf(err))

	assert.Equal(t, []any{"City"}, b.calls[3].params)
}

func TestOwnerDetails_ReadErrorPropagates(t *testing.T) {
	b := newRecordingBrowser()
	b.err = errors.New("element not found")

	err := NewOwnerDetails(b).CheckName(context.Background(), "George Franklin")
	assert.ErrorIs(t, err, b.err)
	assert.Empty(t, apperr.CodeOf(err))
}

func TestOwnerForm(t *testing.T) {
	b := newRecordingBrowser()
	form := NewOwnerForm(b)
	ctx := context.Background()

	require.NoError(t, form.SetFirstName(ctx, "George"))
	require.NoError(t, form.SetLastName(ctx, "Franklin"))
	require.NoError(t, form.SetAddress(ctx, "110 W. Liberty St."))
	require.NoError(t, form.SetCity(ctx, "Madison"))
	require.NoError(t, form.SetTelephone(ctx, "6085551023"))
	require.NoError(t, form.AddOwner(ctx))

	assert.Equal(t, []string{
		"id:firstName", "id:lastName", "id:address", "id:city", "id:telephone", "css:#add-owner-form button",
	}, selectors(b.calls))
	assert.Equal(t, "George", b.calls[0].value)
}

func TestOwnerForm_CheckFieldErrorMessage(t *testing.T) {
	b := newRecordingBrowser()
	b.texts["xpath://input[@id='telephone']/../../span[@class='help-inline']"] = "numeric value out of bounds (<10 digits>.<0 digits> expected)"
	b.texts["xpath://input[@id='firstName']/../../span[@class='help-inline']"] = "must not be blank"

	form := NewOwnerForm(b)
	ctx := context.Background()

	require.NoError(t, form.CheckFieldErrorMessage(ctx, "Telephone", "numeric value out of bounds"))
	require.NoError(t, form.CheckFieldErrorMessage(ctx, "First Name", "must not be blank"))

	err := form.CheckFieldErrorMessage(ctx, "First Name", "too long")
	assert.Equal(t, apperr.CodeCheckFailed, apperr.CodeOf(err))
}

func TestLabelToID(t *testing.T) {
	tests := map[string]string{
		"First Name":     "firstName",
		"Last Name":      "lastName",
		"Telephone":      "telephone",
		"City":           "city",
		"":               "",
		"Pet birth Date": "petbirthDate",
	}

	for label, want := range tests {
		assert.Equal(t, want, LabelToID(label), fmt.Sprintf("label %q", label))
	}
}

func actions(calls []call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.action)
	}

	return out
}

func selectors(calls []call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.selector)
	}

	return out
}
