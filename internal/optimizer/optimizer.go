// Package optimizer searches for the smallest constant monthly overpayment that
// finishes a household's payoff schedule by a target month.
package optimizer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/iwvelando/debt-roadmap/pkg/format"
	"github.com/iwvelando/debt-roadmap/pkg/mathutil"
	"github.com/iwvelando/debt-roadmap/pkg/optimization"
	"go.uber.org/zap"
)

type Runner struct {
	logger    *zap.Logger
	snapshot  household.Snapshot
	opts      payoff.Options
	target    optimization.Target
	fixedTime time.Time
}

type evaluation struct {
	value    float64
	months   int
	target   int
	schedule payoff.Schedule
}

func (e evaluation) feasible() bool {
	return e.months >= 0 && e.months <= e.target
}

// Result is the solver outcome plus the schedule projected at the required
// overpayment (or at the baseline when the target cannot be met).
type Result struct {
	Summary  optimization.Summary
	Schedule payoff.Schedule
}

// NewRunner constructs a Runner for the provided snapshot and target. The
// snapshot is copied so later changes by the caller do not affect the search.
func NewRunner(logger *zap.Logger, snapshot household.Snapshot, opts payoff.Options, target optimization.Target) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger:    logger,
		snapshot:  snapshot.Clone(),
		opts:      opts,
		target:    target,
		fixedTime: time.Now(),
	}
}

// WithFixedTime anchors every projection the runner makes at the given month.
func (r *Runner) WithFixedTime(anchor time.Time) *Runner {
	r.fixedTime = anchor
	return r
}

// Run executes the search without cancellation.
func (r *Runner) Run() (*Result, error) {
	return r.RunContext(context.Background())
}

// RunContext executes the search, checking ctx between projections. An
// unreachable target is reported through Summary.Feasible, not an error.
func (r *Runner) RunContext(ctx context.Context) (*Result, error) {
	target := r.target
	if err := target.Resolve(r.fixedTime); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	opts := r.opts
	if opts.MaxMonths <= 0 {
		opts.MaxMonths = constants.DefaultMaxMonths
	}
	if opts.MaxMonths < target.Months {
		opts.MaxMonths = target.Months
	}

	evaluate := func(value float64) (evaluation, error) {
		if err := ctx.Err(); err != nil {
			return evaluation{}, fmt.Errorf("solver cancelled: %w", err)
		}
		return r.evaluate(opts, target.Months, value), nil
	}

	baseline, err := evaluate(0)
	if err != nil {
		return nil, err
	}

	summary := optimization.Summary{
		TargetMonths:   target.Months,
		BaselineMonths: baseline.months,
	}

	if baseline.feasible() {
		summary.Feasible = true
		summary.Converged = true
		summary.AchievedMonths = baseline.months
		summary.RequiredDisplay = format.Currency(0)
		summary.FreedomDate = payoff.FreedomDate(baseline.schedule)
		summary.Notes = []string{"current plan already clears all debt by the target"}
		r.logSummary(summary)
		return &Result{Summary: summary, Schedule: baseline.schedule}, nil
	}

	upper := math.Max(2*r.snapshot.TotalDebt(), constants.SolverBoundFloor)
	var upperEval evaluation
	found := false
	for attempt := 0; attempt < constants.SolverBoundAttempts; attempt++ {
		upperEval, err = evaluate(upper)
		if err != nil {
			return nil, err
		}
		if upperEval.feasible() {
			found = true
			break
		}
		upper *= 2
	}

	if !found {
		upper /= 2
		summary.UpperBound = upper
		summary.AchievedMonths = baseline.months
		summary.FreedomDate = payoff.FreedomDate(baseline.schedule)
		summary.Notes = []string{fmt.Sprintf(
			"no monthly overpayment up to %s clears the debt within %d months",
			format.Currency(upper), target.Months,
		)}
		r.logSummary(summary)
		return &Result{Summary: summary, Schedule: baseline.schedule}, nil
	}

	summary.UpperBound = upper
	best := upperEval
	lower := 0.0
	iterations := 0
	for iterations < target.MaxIterations && upper-lower > target.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := evaluate(mid)
		if err != nil {
			return nil, err
		}
		iterations++
		if evalMid.feasible() {
			best = evalMid
			upper = mid
		} else {
			lower = mid
		}
	}

	rounded := mathutil.CeilCents(upper)
	if rounded != best.value {
		roundedEval, err := evaluate(rounded)
		if err != nil {
			return nil, err
		}
		if roundedEval.feasible() {
			best = roundedEval
		} else {
			r.logger.Warn("rounded overpayment missed target, keeping unrounded amount",
				zap.String("op", "optimizer.RunContext"),
				zap.Float64("rounded", rounded),
				zap.Float64("unrounded", best.value),
			)
		}
	}

	summary.Feasible = true
	summary.RequiredMonthly = best.value
	summary.RequiredDisplay = format.Currency(best.value)
	summary.AchievedMonths = best.months
	summary.FreedomDate = payoff.FreedomDate(best.schedule)
	summary.Iterations = iterations
	summary.Converged = upper-lower <= target.Tolerance
	if !summary.Converged {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"search stopped after %d iterations with a %s window",
			iterations, format.Currency(upper-lower),
		))
	}

	r.logSummary(summary)
	return &Result{Summary: summary, Schedule: best.schedule}, nil
}

func (r *Runner) evaluate(opts payoff.Options, target int, value float64) evaluation {
	opts.MonthlyOverpayment = value
	schedule := payoff.ProjectWithFixedTime(r.snapshot, opts, r.fixedTime)
	// A schedule cut off at its month cap never finishes.
	months := len(schedule)
	if payoff.Summarize(schedule).Truncated {
		months = -1
	}
	return evaluation{value: value, months: months, target: target, schedule: schedule}
}

func (r *Runner) logSummary(summary optimization.Summary) {
	r.logger.Info("solver finished",
		zap.String("op", "optimizer.RunContext"),
		zap.Bool("feasible", summary.Feasible),
		zap.Float64("requiredMonthly", summary.RequiredMonthly),
		zap.Int("targetMonths", summary.TargetMonths),
		zap.Int("baselineMonths", summary.BaselineMonths),
		zap.Int("achievedMonths", summary.AchievedMonths),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
}
