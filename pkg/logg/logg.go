// Package logg holds the structured-log field keys shared by every layer.
package logg

const (
	Layer     = "layer"
	Operation = "op"
	Selector  = "selector"
	Params    = "params"
	URL       = "url"
	Engine    = "engine"
	Locale    = "locale"
	Headless  = "headless"
	Timeout   = "timeout"
	Poll      = "poll"
	Delay     = "delay"
	Elapsed   = "elapsed"
	Attempt   = "attempt"
	RunID     = "run_id"
	Scenario  = "scenario"
	Step      = "step"
)
