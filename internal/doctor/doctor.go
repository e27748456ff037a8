package doctor

import (
	"log/slog"
	"time"

	"github.com/thoreinstein/prefkeep/internal/permfix"
)

// Check is the interface that diagnostic checks must implement.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check (e.g., "backup", "storage").
	Category() string

	// Run executes the diagnostic check and returns its result.
	Run() *CheckResult
}

// Fixer is implemented by checks that can repair what they found. CanFix
// is only meaningful after Run.
type Fixer interface {
	CanFix() bool
	Fix() []permfix.FixResult
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
	logger *slog.Logger
}

// NewRunner creates a new diagnostic runner.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes all registered checks in order and returns a report.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: time.Now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run()
		r.logger.Debug("check finished", "check", check.Name(), "status", result.Status)
		report.add(result)
	}

	return report
}

// Fix runs every registered Fixer that reported something to repair.
func (r *Runner) Fix() []permfix.FixResult {
	var results []permfix.FixResult
	for _, check := range r.checks {
		f, ok := check.(Fixer)
		if !ok || !f.CanFix() {
			continue
		}
		r.logger.Debug("fixing", "check", check.Name())
		results = append(results, f.Fix()...)
	}
	return results
}

// Report aggregates all check results with timing and summary.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

func (r *Report) add(result *CheckResult) {
	r.Results = append(r.Results, result)
	switch result.Status {
	case SeverityPass:
		r.Summary.Passed++
	case SeverityInfo:
		r.Summary.Info++
	case SeverityWarning:
		r.Summary.Warnings++
	case SeverityError:
		r.Summary.Errors++
	}
}

// HasErrors returns true if any check has SeverityError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
