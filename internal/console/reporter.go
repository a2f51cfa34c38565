package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"petclinic-acceptance/internal/entity"
	"petclinic-acceptance/pkg/logg"
)

const (
	reporterName = "Console"
	rule         = "──────────────────────────────────────────────────"
)

// Reporter prints scenario runs for a human reading the terminal. Structured logs go
// through zap separately.
type Reporter struct {
	out    io.Writer
	logger *zap.Logger
}

type Params struct {
	fx.In

	Logger *zap.Logger
}

func NewReporter(params Params) *Reporter {
	return NewReporterTo(os.Stdout, params.Logger)
}

func NewReporterTo(out io.Writer, logger *zap.Logger) *Reporter {
	return &Reporter{
		out:    out,
		logger: logger.With(zap.String(logg.Layer, reporterName)),
	}
}

func (r *Reporter) Banner(host string, scenarios []string) {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║            🐾  PetClinic Acceptance Suite  🌐             ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	r.printf("%s\n", banner)
	r.printf("Target: %s\n", host)
	r.printf("Available scenarios:\n")

	for _, name := range scenarios {
		r.printf("  - %s\n", name)
	}
}

// Run prints one run with its steps.
func (r *Reporter) Run(run *entity.Run) {
	r.printf("\n🤖 Scenario: %s\n", run.Scenario)
	r.printf("%s\n", rule)

	for _, st := range run.Steps {
		switch {
		case st.Skipped:
			r.printf("  ⏭️  %s\n", st.Name)
		case st.Success:
			r.printf("  ✅ %s (%s)\n", st.Name, st.Duration.Round(time.Millisecond))
		default:
			r.printf("  ❌ %s: %s\n", st.Name, st.Error)
		}
	}

	r.printf("%s\n", rule)

	if run.Passed() {
		r.printf("✅ Scenario passed in %s\n", elapsed(run))
	} else {
		r.printf("❌ Scenario failed: %s\n", run.Error)
	}
}

// Summary prints every run followed by totals, and returns the number of failed runs.
func (r *Reporter) Summary(runs []*entity.Run) int {
	var failed []string

	for _, run := range runs {
		r.Run(run)

		if !run.Passed() {
			failed = append(failed, failedAt(run))
		}
	}

	r.printf("\n%d scenarios, %d passed, %d failed\n", len(runs), len(runs)-len(failed), len(failed))

	if len(failed) > 0 {
		r.printf("Failed: %s\n", strings.Join(failed, ", "))
	}

	return len(failed)
}

func (r *Reporter) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.logger.Warn("Failed to write report", zap.Error(err))
	}
}

func failedAt(run *entity.Run) string {
	if st := run.FailedStep(); st != nil {
		return fmt.Sprintf("%s (%s)", run.Scenario, st.Name)
	}

	return run.Scenario
}

func elapsed(run *entity.Run) time.Duration {
	if run.CompletedAt == nil {
		return 0
	}

	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond)
}
