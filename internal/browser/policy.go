package browser

import (
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	DefaultTimeout = 20 * time.Second
	DefaultPoll    = 2 * time.Second
	DefaultDelay   = time.Duration(0)

	DefaultActionTimeout = time.Second
)

// Policy governs every locate call: an optional pacing delay, then presence polls every poll
// interval until timeout. It is built once from configuration and never changes.
type Policy struct {
	timeout time.Duration
	poll    time.Duration
	delay   time.Duration
}

func DefaultPolicy() Policy {
	return Policy{timeout: DefaultTimeout, poll: DefaultPoll, delay: DefaultDelay}
}

// NewPolicy falls back to the defaults for a non-positive timeout or poll interval and clamps
// a negative delay to zero. A poll interval larger than the timeout is allowed.
func NewPolicy(timeout, poll, delay time.Duration) Policy {
	p := DefaultPolicy()

	if timeout > 0 {
		p.timeout = timeout
	}

	if poll > 0 {
		p.poll = poll
	}

	if delay > 0 {
		p.delay = delay
	}

	return p
}

func (p Policy) Timeout() time.Duration { return p.timeout }
func (p Policy) Poll() time.Duration    { return p.poll }
func (p Policy) Delay() time.Duration   { return p.delay }

func (p Policy) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddDuration("timeout", p.timeout)
	enc.AddDuration("poll", p.poll)
	enc.AddDuration("delay", p.delay)

	return nil
}
