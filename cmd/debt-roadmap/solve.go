package main

import (
	"github.com/iwvelando/debt-roadmap/internal/optimizer"
	"github.com/iwvelando/debt-roadmap/pkg/output"
	"github.com/spf13/cobra"
)

type solveFlags struct {
	targetMonths int
	targetDate   string
	maxMonths    int
	anchor       string
	schedule     bool
}

func (a *app) newSolveCmd() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the monthly overpayment that clears all debt by a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSolve(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.targetMonths, "target-months", 0, "months until the household should be debt free")
	f.StringVar(&flags.targetDate, "target-date", "", "month the household should be debt free by (YYYY-MM)")
	f.IntVar(&flags.maxMonths, "max-months", 0, "simulation horizon override in months")
	f.StringVar(&flags.anchor, "anchor", "", "first projected month override (YYYY-MM)")
	f.BoolVar(&flags.schedule, "schedule", false, "also print the schedule at the required overpayment")
	return cmd
}

func (a *app) runSolve(cmd *cobra.Command, flags solveFlags) error {
	ctx := cmd.Context()

	conf, logger, err := a.load()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// The solver owns the overpayment, so only horizon and anchor apply.
	applySimulationFlags(cmd, conf, 0, flags.maxMonths, flags.anchor)
	if flags.targetMonths > 0 {
		conf.Target.Months = flags.targetMonths
		conf.Target.Date = ""
	}
	if flags.targetDate != "" {
		conf.Target.Date = flags.targetDate
	}

	if err := a.resolveHousehold(ctx, conf); err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	logWarnings(logger, conf)

	anchor, err := conf.AnchorTime()
	if err != nil {
		return err
	}

	result, err := optimizer.NewRunner(logger, conf.Household, conf.Simulation, conf.Target).
		WithFixedTime(anchor).
		RunContext(ctx)
	if err != nil {
		return err
	}

	output.SolverFormat(a.out, result.Summary)
	if flags.schedule {
		output.PrettyFormat(a.out, result.Schedule)
	}
	return nil
}
