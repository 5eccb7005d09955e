// Package optimization provides shared data structures for target-date solver
// requests and results.
package optimization

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/iwvelando/debt-roadmap/pkg/datetime"
)

// Target describes when the household wants to be debt free. Either Months or
// Date ("2006-01") may be given; Date wins when both are set.
type Target struct {
	Months        int     `json:"months,omitempty" yaml:"months,omitempty" mapstructure:"months"`
	Date          string  `json:"date,omitempty" yaml:"date,omitempty" mapstructure:"date"`
	Tolerance     float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int     `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// Normalize fills in solver defaults.
func (t *Target) Normalize() {
	if t == nil {
		return
	}
	t.Date = strings.TrimSpace(t.Date)
	if t.Tolerance <= 0 {
		t.Tolerance = constants.SolverTolerance
	}
	if t.MaxIterations <= 0 {
		t.MaxIterations = constants.SolverMaxIterations
	}
}

// Resolve converts a target date into a month count relative to anchor. A
// date in the anchor's own month is one month away.
func (t *Target) Resolve(anchor time.Time) error {
	if t == nil {
		return fmt.Errorf("target cannot be nil")
	}
	t.Normalize()
	if t.Date == "" {
		return nil
	}
	date, err := datetime.ParseAnchor(t.Date)
	if err != nil {
		return fmt.Errorf("invalid target date: %w", err)
	}
	t.Months = datetime.MonthsBetween(datetime.MonthStart(anchor), date) + 1
	return nil
}

// Validate checks the target after normalization.
func (t *Target) Validate() error {
	if t == nil {
		return fmt.Errorf("target cannot be nil")
	}
	t.Normalize()
	if t.Months < 1 {
		return fmt.Errorf("target must be at least 1 month away, got %d", t.Months)
	}
	return nil
}

// Summary captures the outcome of a target-date solve.
type Summary struct {
	Feasible        bool     `json:"feasible"`
	RequiredMonthly float64  `json:"requiredMonthly"`
	TargetMonths    int      `json:"targetMonths"`
	BaselineMonths  int      `json:"baselineMonths"`
	AchievedMonths  int      `json:"achievedMonths"`
	UpperBound      float64  `json:"upperBound"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	RequiredDisplay string   `json:"requiredDisplay,omitempty"`
	FreedomDate     string   `json:"freedomDate,omitempty"`
}
