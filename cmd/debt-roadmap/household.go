package main

import (
	"fmt"

	"github.com/iwvelando/debt-roadmap/pkg/snapshotio"
	"github.com/iwvelando/debt-roadmap/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newHouseholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household",
		Short: "Move the household between the store and snapshot files",
	}
	cmd.AddCommand(a.newHouseholdImportCmd(), a.newHouseholdExportCmd())
	return cmd
}

func (a *app) newHouseholdImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored household with a YAML, JSON or TOML snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := a.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			snapshot, err := snapshotio.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := validation.ValidateSnapshot(snapshot); err != nil {
				return err
			}

			st, err := openStore(conf.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Save(cmd.Context(), snapshot); err != nil {
				return fmt.Errorf("failed to save household: %w", err)
			}

			logger.Info("household imported",
				zap.String("op", "household.import"),
				zap.String("file", args[0]),
				zap.Int("debts", len(snapshot.Debts)),
			)
			fmt.Fprintf(a.out, "Imported %d debt(s) from %s\n", len(snapshot.Debts), args[0])
			return nil
		},
	}
}

func (a *app) newHouseholdExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the stored household to a snapshot file, or YAML on stdout for \"-\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := a.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			st, err := openStore(conf.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			snapshot, err := st.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load household: %w", err)
			}

			if args[0] == "-" {
				return snapshotio.Encode(a.out, snapshot, snapshotio.YAML)
			}
			if err := snapshotio.WriteFile(args[0], snapshot); err != nil {
				return err
			}
			logger.Info("household exported",
				zap.String("op", "household.export"),
				zap.String("file", args[0]),
			)
			return nil
		},
	}
}
