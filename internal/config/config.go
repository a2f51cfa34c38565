package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig     *AppConfig
	BrowserConfig *BrowserConfig
	SUTConfig     *SUTConfig
	TextConfig    *TextConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	Traces   bool   `envconfig:"TRACES" default:"false"`
}

// BrowserConfig drives engine selection and the wait policy used by every locate call.
type BrowserConfig struct {
	Type     string        `envconfig:"WD_TYPE" default:"chrome"`
	Lang     string        `envconfig:"WD_LANG" default:"es"`
	Headless string        `envconfig:"WD_HEADLESS"`
	Timeout  time.Duration `envconfig:"WD_TIMEOUT" default:"20s"`
	Poll     time.Duration `envconfig:"WD_POLL" default:"2s"`
	Delay    time.Duration `envconfig:"WD_DELAY" default:"0s"`
	// ActionTimeout bounds a click, keystrokes or text read on an element already located.
	ActionTimeout time.Duration `envconfig:"WD_ACTION_TIMEOUT" default:"1s"`
}

type SUTConfig struct {
	Host      string   `envconfig:"SUT_HOST" default:"http://localhost:8080/"`
	Title     string   `envconfig:"SUT_TITLE" default:"PetClinic :: a Spring Framework demonstration"`
	Scenarios []string `envconfig:"SCENARIOS"`
}

// TextConfig holds the page texts the owner scenarios expect. The defaults are what
// PetClinic renders in English; override them when WD_LANG makes the application localize.
type TextConfig struct {
	OwnerFormTitle    string `envconfig:"SUT_OWNER_FORM_TITLE" default:"Owner"`
	OwnerDetailsTitle string `envconfig:"SUT_OWNER_DETAILS_TITLE" default:"Owner Information"`
	OwnerCreated      string `envconfig:"SUT_OWNER_CREATED" default:"New Owner Created"`
	BlankField        string `envconfig:"SUT_BLANK_FIELD" default:"must not be blank"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
