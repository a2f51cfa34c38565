package browser

// Driver is one live browser instance showing a single page. Selectors passed to it are
// already rendered in the driver's own syntax.
type Driver interface {
	Goto(url string) error
	Title() (string, error)
	Count(selector string) (int, error)
	Element(selector string) Element
	Quit() error
}

// Element is a handle to the first node matching a selector at the time of the action.
type Element interface {
	SendKeys(value string) error
	Click() error
	Text() (string, error)
}

// Launcher provisions engines and starts drivers. Provision must be idempotent.
type Launcher interface {
	Provision(engine Engine) error
	Launch(opts LaunchOptions) (Driver, error)
}
