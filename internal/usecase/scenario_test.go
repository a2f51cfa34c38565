package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"petclinic-acceptance/internal/config"
	"petclinic-acceptance/internal/entity"
	"petclinic-acceptance/internal/pages"
	"petclinic-acceptance/internal/selector"
	"petclinic-acceptance/internal/usecase"
	"petclinic-acceptance/pkg/apperr"
)

const petclinicTitle = "PetClinic :: a Spring Framework demonstration"

var errMissing = errors.New("element not found")

// scriptedBrowser answers Text from a table keyed by resolved selector; unknown selectors
// fail like a locate timeout would.
type scriptedBrowser struct {
	open    bool
	opens   int
	closes  int
	title   string
	texts   map[string]string
	missing map[string]bool
	written map[string]string
	clicked []string
}

func newScriptedBrowser() *scriptedBrowser {
	return &scriptedBrowser{
		title:   petclinicTitle,
		texts:   make(map[string]string),
		missing: make(map[string]bool),
		written: make(map[string]string),
	}
}

func (b *scriptedBrowser) Open(context.Context, string) error {
	if b.open {
		return errors.New("already open")
	}

	b.open = true
	b.opens++

	return nil
}

func (b *scriptedBrowser) Navigate(context.Context, string) error { return nil }

func (b *scriptedBrowser) Title(context.Context) (string, error) { return b.title, nil }

func (b *scriptedBrowser) Close(context.Context) error {
	if b.open {
		b.closes++
	}

	b.open = false

	return nil
}

func (b *scriptedBrowser) resolve(sel string, params []any) (string, error) {
	loc, err := selector.Resolve(sel, params...)
	if err != nil {
		return "", err
	}

	if b.missing[loc.String()] {
		return "", errMissing
	}

	return loc.String(), nil
}

func (b *scriptedBrowser) Write(_ context.Context, sel, value string, params ...any) error {
	key, err := b.resolve(sel, params)
	if err != nil {
		return err
	}

	b.written[key] = value

	return nil
}

func (b *scriptedBrowser) Click(_ context.Context, sel string, params ...any) error {
	key, err := b.resolve(sel, params)
	if err != nil {
		return err
	}

	b.clicked = append(b.clicked, key)

	return nil
}

func (b *scriptedBrowser) Text(_ context.Context, sel string, params ...any) (string, error) {
	key, err := b.resolve(sel, params)
	if err != nil {
		return "", err
	}

	return b.texts[key], nil
}

func newService(t *testing.T, b *scriptedBrowser, scenarios ...usecase.Scenario) *usecase.ScenarioService {
	t.Helper()

	return newServiceWithTexts(t, b, nil, scenarios...)
}

func newServiceWithTexts(t *testing.T, b *scriptedBrowser, texts *config.TextConfig, scenarios ...usecase.Scenario) *usecase.ScenarioService {
	t.Helper()

	params := usecase.ScenarioServiceParams{
		Config: &config.Config{
			SUTConfig: &config.SUTConfig{
				Host:  "http://localhost:8080/",
				Title: petclinicTitle,
			},
			TextConfig: texts,
		},
		Logger: zaptest.NewLogger(t),
		Site:   pages.NewSite(b),
	}

	if len(scenarios) == 0 {
		return usecase.NewScenarioService(params)
	}

	return usecase.NewScenarioServiceFor(params, scenarios)
}

const heading = "css:.container-fluid h2"

func TestAddOwnerScenario_Passes(t *testing.T) {
	b := newScriptedBrowser()
	b.texts[heading] = "Owner"
	b.texts["css:#success-message span"] = "New Owner Created"
	b.texts["xpath://table/tbody/tr/th[text()='Name']/following-sibling::td"] = "George Franklin"
	b.texts["xpath://table/tbody/tr/th[text()='Address']/following-sibling::td"] = "110 W. Liberty St."
	b.texts["xpath://table/tbody/tr/th[text()='City']/following-sibling::td"] = "Madison"
	b.texts["xpath://table/tbody/tr/th[text()='Telephone']/following-sibling::td"] = "6085551023"

	svc := newService(t, b)

	runs, err := svc.RunAll(context.Background(), []string{usecase.ScenarioAddOwner})
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.True(t, run.Passed())
	assert.Equal(t, usecase.ScenarioAddOwner, run.Scenario)
	assert.NotNil(t, run.CompletedAt)
	assert.Nil(t, run.FailedStep())
	assert.Equal(t, entity.StepKindBefore, run.Steps[0].Kind)
	assert.Equal(t, entity.StepKindAfter, run.Steps[len(run.Steps)-1].Kind)

	assert.Equal(t, "George", b.written["id:firstName"])
	assert.Equal(t, "6085551023", b.written["id:telephone"])
	assert.Contains(t, b.clicked, "css:#add-owner-form button")
	assert.Equal(t, 1, b.opens)
	assert.Equal(t, 1, b.closes)
}

func TestScenario_FailureSkipsRestAndCloses(t *testing.T) {
	b := newScriptedBrowser()
	b.texts[heading] = "Owner"
	b.missing["css:#add-owner-form button"] = true

	svc := newService(t, b)

	runs, err := svc.RunAll(context.Background(), []string{usecase.ScenarioAddOwner})
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, entity.RunStatusFailed, run.Status)

	failed := run.FailedStep()
	require.NotNil(t, failed)
	assert.Equal(t, "click Add Owner", failed.Name)

	var skipped int
	for _, st := range run.Steps {
		if st.Skipped {
			skipped++
		}
	}
	assert.Equal(t, 2, skipped)

	last := run.Steps[len(run.Steps)-1]
	assert.Equal(t, entity.StepKindAfter, last.Kind)
	assert.True(t, last.Success)
	assert.Equal(t, 1, b.closes)
}

func TestScenario_WrongTitleFailsBeforeSteps(t *testing.T) {
	b := newScriptedBrowser()
	b.title = "Whitelabel Error Page"

	svc := newService(t, b, usecase.FindOwnerScenario("Franklin", usecase.EnglishTexts))

	runs, err := svc.RunAll(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeActionFailed, apperr.CodeOf(err))

	run := runs[0]
	assert.Equal(t, entity.StepKindBefore, run.FailedStep().Kind)
	assert.Empty(t, b.clicked)
	assert.Equal(t, 1, b.closes)
}

func TestMissingTelephoneScenario(t *testing.T) {
	b := newScriptedBrowser()
	b.texts[heading] = "Owner"
	b.texts["xpath://input[@id='telephone']/../../span[@class='help-inline']"] = "must not be blank"

	svc := newService(t, b)

	runs, err := svc.RunAll(context.Background(), []string{usecase.ScenarioAddOwnerMissingPhone})
	require.NoError(t, err)
	assert.True(t, runs[0].Passed())

	_, typed := b.written["id:telephone"]
	assert.False(t, typed)
}

func TestFindOwnerScenario(t *testing.T) {
	b := newScriptedBrowser()
	b.texts[heading] = "Owner Information"

	svc := newService(t, b)

	runs, err := svc.RunAll(context.Background(), []string{usecase.ScenarioFindOwner})
	require.NoError(t, err)
	assert.True(t, runs[0].Passed())
	assert.Equal(t, "Franklin", b.written["id:lastName"])
}

func TestRunAll_ContinuesAfterFailure(t *testing.T) {
	b := newScriptedBrowser()
	b.texts[heading] = "Owner Information"

	svc := newService(t, b)
	assert.Equal(t, []string{
		usecase.ScenarioAddOwner,
		usecase.ScenarioAddOwnerMissingPhone,
		usecase.ScenarioFindOwner,
	}, svc.Scenarios())

	runs, err := svc.RunAll(context.Background(), nil)
	require.Error(t, err)
	require.Len(t, runs, 3)

	assert.False(t, runs[0].Passed())
	assert.False(t, runs[1].Passed())
	assert.True(t, runs[2].Passed())
	assert.Equal(t, 3, b.opens)
	assert.Equal(t, 3, b.closes)
}

func TestRunAll_UnknownScenario(t *testing.T) {
	svc := newService(t, newScriptedBrowser())

	_, err := svc.RunAll(context.Background(), []string{"delete owner"})
	assert.ErrorIs(t, err, usecase.ErrUnknownScenario)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestRunAll_StopsWhenCancelled(t *testing.T) {
	b := newScriptedBrowser()
	svc := newService(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runs, err := svc.RunAll(ctx, []string{""})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runs)
	assert.Zero(t, b.opens)
}

func TestTextsFrom(t *testing.T) {
	assert.Equal(t, usecase.EnglishTexts, usecase.TextsFrom(nil))
	assert.Equal(t, usecase.EnglishTexts, usecase.TextsFrom(&config.TextConfig{}))

	texts := usecase.TextsFrom(&config.TextConfig{BlankField: "no debe estar vacío"})
	assert.Equal(t, "no debe estar vacío", texts.BlankField)
	assert.Equal(t, "Owner Information", texts.OwnerDetailsTitle)
}

func TestMissingTelephoneScenario_LocalizedTexts(t *testing.T) {
	b := newScriptedBrowser()
	b.texts[heading] = "Propietario"
	b.texts["xpath://input[@id='telephone']/../../span[@class='help-inline']"] = "no debe estar vacío"

	svc := newServiceWithTexts(t, b, &config.TextConfig{
		OwnerFormTitle: "Propietario",
		BlankField:     "no debe estar vacío",
	})

	runs, err := svc.RunAll(context.Background(), []string{usecase.ScenarioAddOwnerMissingPhone})
	require.NoError(t, err)
	assert.True(t, runs[0].Passed())

	runs, err = newService(t, b).RunAll(context.Background(), []string{usecase.ScenarioAddOwnerMissingPhone})
	require.Error(t, err)
	assert.False(t, runs[0].Passed())
}
