package browser_test

import (
	"errors"
	"sync"
	"time"

	"petclinic-acceptance/internal/browser"
)

// fakeLauncher records launches and hands out fakeDrivers.
type fakeLauncher struct {
	mu          sync.Mutex
	provisioned map[browser.Engine]int
	launches    []browser.LaunchOptions
	drivers     []*fakeDriver
	launchErr   error
	page        func() *fakePage
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{
		provisioned: make(map[browser.Engine]int),
		page:        newFakePage,
	}
}

func (l *fakeLauncher) Provision(engine browser.Engine) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.provisioned[engine]++

	return nil
}

func (l *fakeLauncher) Launch(opts browser.LaunchOptions) (browser.Driver, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.launches = append(l.launches, opts)
	if l.launchErr != nil {
		return nil, l.launchErr
	}

	d := &fakeDriver{page: l.page()}
	l.drivers = append(l.drivers, d)

	return d, nil
}

func (l *fakeLauncher) last() *fakeDriver {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.drivers) == 0 {
		return nil
	}

	return l.drivers[len(l.drivers)-1]
}

// fakePage is the document a fakeDriver shows. Elements become present at appearAt.
type fakePage struct {
	mu       sync.Mutex
	title    string
	elements map[string]*fakeElement
	appearAt map[string]time.Time
}

func newFakePage() *fakePage {
	return &fakePage{
		title:    "PetClinic :: a Spring Framework demonstration",
		elements: make(map[string]*fakeElement),
		appearAt: make(map[string]time.Time),
	}
}

func (p *fakePage) add(selector, text string) *fakeElement {
	p.mu.Lock()
	defer p.mu.Unlock()

	el := &fakeElement{text: text}
	p.elements[selector] = el

	return el
}

func (p *fakePage) addLater(selector, text string, after time.Duration) *fakeElement {
	el := p.add(selector, text)

	p.mu.Lock()
	p.appearAt[selector] = time.Now().Add(after)
	p.mu.Unlock()

	return el
}

type fakeDriver struct {
	mu      sync.Mutex
	page    *fakePage
	visited []string
	counts  int
	quits   int
	gotoErr error
	quitErr error
}

func (d *fakeDriver) Goto(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gotoErr != nil {
		return d.gotoErr
	}

	d.visited = append(d.visited, url)

	return nil
}

func (d *fakeDriver) Title() (string, error) {
	d.page.mu.Lock()
	defer d.page.mu.Unlock()

	return d.page.title, nil
}

func (d *fakeDriver) Count(selector string) (int, error) {
	d.mu.Lock()
	d.counts++
	d.mu.Unlock()

	d.page.mu.Lock()
	defer d.page.mu.Unlock()

	if _, ok := d.page.elements[selector]; !ok {
		return 0, nil
	}

	if at, ok := d.page.appearAt[selector]; ok && time.Now().Before(at) {
		return 0, nil
	}

	return 1, nil
}

func (d *fakeDriver) Element(selector string) browser.Element {
	d.page.mu.Lock()
	defer d.page.mu.Unlock()

	return d.page.elements[selector]
}

func (d *fakeDriver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.quits++

	return d.quitErr
}

func (d *fakeDriver) countCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.counts
}

type fakeElement struct {
	mu      sync.Mutex
	text    string
	typed   []string
	clicks  int
	failing bool
}

var errStale = errors.New("stale element")

func (e *fakeElement) SendKeys(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failing {
		return errStale
	}

	e.typed = append(e.typed, value)

	return nil
}

func (e *fakeElement) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failing {
		return errStale
	}

	e.clicks++

	return nil
}

func (e *fakeElement) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failing {
		return "", errStale
	}

	return e.text, nil
}
