package main

import (
	"fmt"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/pkg/output"
	"github.com/spf13/cobra"
)

func (a *app) newReadinessCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Show household totals and what is still missing before planning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := a.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			if err := a.resolveHousehold(cmd.Context(), conf); err != nil {
				return err
			}

			items := household.Readiness(conf.Household)
			output.ReadinessFormat(a.out, household.ComputeTotals(conf.Household), items)

			if gaps := household.Gaps(items); strict && len(gaps) > 0 {
				return fmt.Errorf("household is not ready: %d item(s) outstanding", len(gaps))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any checklist item is outstanding")
	return cmd
}
