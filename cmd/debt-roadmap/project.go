package main

import (
	"time"

	"github.com/iwvelando/debt-roadmap/internal/config"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/iwvelando/debt-roadmap/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type projectFlags struct {
	outputFormat string
	overpay      float64
	maxMonths    int
	anchor       string
	noCompare    bool
}

func (a *app) newProjectCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the month-by-month payoff schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProject(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.outputFormat, "output-format", "", "type of output override: pretty, csv, table")
	f.Float64Var(&flags.overpay, "overpay", 0, "monthly overpayment override")
	f.IntVar(&flags.maxMonths, "max-months", 0, "simulation horizon override in months")
	f.StringVar(&flags.anchor, "anchor", "", "first projected month override (YYYY-MM)")
	f.BoolVar(&flags.noCompare, "no-compare", false, "skip the comparison against minimum payments")
	return cmd
}

// applySimulationFlags copies explicitly set flags over the configuration.
func applySimulationFlags(cmd *cobra.Command, conf *config.Configuration, overpay float64, maxMonths int, anchor string) {
	if cmd.Flags().Changed("overpay") {
		conf.Simulation.MonthlyOverpayment = overpay
	}
	if cmd.Flags().Changed("max-months") {
		conf.Simulation.MaxMonths = maxMonths
	}
	if anchor != "" {
		conf.Anchor = anchor
	}
}

func (a *app) runProject(cmd *cobra.Command, flags projectFlags) error {
	ctx := cmd.Context()

	conf, logger, err := a.load()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	applySimulationFlags(cmd, conf, flags.overpay, flags.maxMonths, flags.anchor)
	if flags.outputFormat != "" {
		conf.Output.Format = flags.outputFormat
	}
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
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

	projector, release, err := newProjector(conf.Cache, logger)
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()
	schedule, cached := projector.Project(ctx, conf.Household, conf.Simulation, anchor)
	logger.Debug("projection complete",
		zap.String("op", "project"),
		zap.Int("months", len(schedule)),
		zap.Bool("cached", cached),
		zap.Duration("duration", time.Since(start)),
	)

	switch conf.Output.Format {
	case constants.OutputFormatCSV:
		// Keep CSV output machine readable.
		output.CsvFormat(a.out, schedule)
		return nil
	case constants.OutputFormatTable:
		output.TableFormat(a.out, schedule)
	default:
		output.PrettyFormat(a.out, schedule)
	}

	if !flags.noCompare && len(schedule) > 0 {
		baseline, _ := projector.Project(ctx, payoff.MinimumOnly(conf.Household), conf.Simulation, anchor)
		output.ComparisonFormat(a.out, payoff.Compare(schedule, baseline))
	}
	return nil
}
