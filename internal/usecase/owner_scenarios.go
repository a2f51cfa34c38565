package usecase

import (
	"context"

	"petclinic-acceptance/internal/config"
	"petclinic-acceptance/internal/pages"
)

const (
	ScenarioAddOwner             = "add owner"
	ScenarioAddOwnerMissingPhone = "add owner without telephone"
	ScenarioFindOwner            = "find owner by last name"
)

// Texts are the page texts the owner scenarios check for.
type Texts struct {
	OwnerFormTitle    string
	OwnerDetailsTitle string
	OwnerCreated      string
	BlankField        string
}

var EnglishTexts = Texts{
	OwnerFormTitle:    "Owner",
	OwnerDetailsTitle: "Owner Information",
	OwnerCreated:      "New Owner Created",
	BlankField:        "must not be blank",
}

// TextsFrom takes each text from cfg, keeping the English one where cfg leaves it blank.
func TextsFrom(cfg *config.TextConfig) Texts {
	texts := EnglishTexts
	if cfg == nil {
		return texts
	}

	for _, f := range []struct {
		dst *string
		src string
	}{
		{&texts.OwnerFormTitle, cfg.OwnerFormTitle},
		{&texts.OwnerDetailsTitle, cfg.OwnerDetailsTitle},
		{&texts.OwnerCreated, cfg.OwnerCreated},
		{&texts.BlankField, cfg.BlankField},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}

	return texts
}

// Owner is the data typed into the owner form.
type Owner struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	Telephone string
}

func (o Owner) FullName() string {
	return o.FirstName + " " + o.LastName
}

var sampleOwner = Owner{
	FirstName: "George",
	LastName:  "Franklin",
	Address:   "110 W. Liberty St.",
	City:      "Madison",
	Telephone: "6085551023",
}

func OwnerScenarios(texts Texts) []Scenario {
	return []Scenario{
		AddOwnerScenario(sampleOwner, texts),
		AddOwnerMissingTelephoneScenario(sampleOwner, texts),
		FindOwnerScenario(sampleOwner.LastName, texts),
	}
}

func AddOwnerScenario(o Owner, texts Texts) Scenario {
	steps := []Step{goToAddOwnerForm(texts)}
	steps = append(steps, fillOwnerForm(o)...)
	steps = append(steps,
		Step{Name: "click Add Owner", Run: func(ctx context.Context, site *pages.Site) error {
			return site.OwnerForm.AddOwner(ctx)
		}},
		Step{Name: "see success message", Run: func(ctx context.Context, site *pages.Site) error {
			return site.OwnerDetails.CheckSuccessMessage(ctx, texts.OwnerCreated)
		}},
		Step{Name: "see owner details", Run: func(ctx context.Context, site *pages.Site) error {
			d := site.OwnerDetails

			for _, check := range []func() error{
				func() error { return d.CheckName(ctx, o.FullName()) },
				func() error { return d.CheckAddress(ctx, o.Address) },
				func() error { return d.CheckCity(ctx, o.City) },
				func() error { return d.CheckTelephone(ctx, o.Telephone) },
			} {
				if err := check(); err != nil {
					return err
				}
			}

			return nil
		}},
	)

	return Scenario{Name: ScenarioAddOwner, Steps: steps}
}

func AddOwnerMissingTelephoneScenario(o Owner, texts Texts) Scenario {
	o.Telephone = ""

	steps := []Step{goToAddOwnerForm(texts)}
	steps = append(steps, fillOwnerForm(o)...)
	steps = append(steps,
		Step{Name: "click Add Owner", Run: func(ctx context.Context, site *pages.Site) error {
			return site.OwnerForm.AddOwner(ctx)
		}},
		Step{Name: "see Telephone error", Run: func(ctx context.Context, site *pages.Site) error {
			return site.OwnerForm.CheckFieldErrorMessage(ctx, "Telephone", texts.BlankField)
		}},
	)

	return Scenario{Name: ScenarioAddOwnerMissingPhone, Steps: steps}
}

func FindOwnerScenario(lastName string, texts Texts) Scenario {
	return Scenario{
		Name: ScenarioFindOwner,
		Steps: []Step{
			{Name: "go to find owners", Run: func(ctx context.Context, site *pages.Site) error {
				return site.NavBar.FindOwners(ctx)
			}},
			{Name: "type last name", Run: func(ctx context.Context, site *pages.Site) error {
				return site.OwnerList.SetLastNameToFind(ctx, lastName)
			}},
			{Name: "click Find Owner", Run: func(ctx context.Context, site *pages.Site) error {
				return site.OwnerList.FindOwner(ctx)
			}},
			{Name: "see owner information", Run: func(ctx context.Context, site *pages.Site) error {
				return site.NavBar.CheckTitle(ctx, texts.OwnerDetailsTitle)
			}},
		},
	}
}

func goToAddOwnerForm(texts Texts) Step {
	return Step{Name: "go to add owner form", Run: func(ctx context.Context, site *pages.Site) error {
		if err := site.NavBar.FindOwners(ctx); err != nil {
			return err
		}

		if err := site.OwnerList.AddOwner(ctx); err != nil {
			return err
		}

		return site.NavBar.CheckTitle(ctx, texts.OwnerFormTitle)
	}}
}

// fillOwnerForm skips blank fields, leaving them empty for validation scenarios.
func fillOwnerForm(o Owner) []Step {
	fields := []struct {
		name  string
		value string
		set   func(*pages.OwnerForm, context.Context, string) error
	}{
		{"First Name", o.FirstName, (*pages.OwnerForm).SetFirstName},
		{"Last Name", o.LastName, (*pages.OwnerForm).SetLastName},
		{"Address", o.Address, (*pages.OwnerForm).SetAddress},
		{"City", o.City, (*pages.OwnerForm).SetCity},
		{"Telephone", o.Telephone, (*pages.OwnerForm).SetTelephone},
	}

	steps := make([]Step, 0, len(fields))

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		steps = append(steps, Step{
			Name: "enter " + f.name,
			Run: func(ctx context.Context, site *pages.Site) error {
				return f.set(site.OwnerForm, ctx, f.value)
			},
		})
	}

	return steps
}
