package main

import (
	"fmt"

	"github.com/iwvelando/debt-roadmap/internal/config"
	"github.com/iwvelando/debt-roadmap/internal/remotesync"
	"github.com/iwvelando/debt-roadmap/pkg/snapshotio"
	"github.com/iwvelando/debt-roadmap/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Exchange the stored household with a remote debt-roadmap server",
	}
	cmd.AddCommand(a.newSyncPushCmd(), a.newSyncPullCmd(), a.newSyncHealthCmd())
	return cmd
}

// syncSession loads configuration and builds a client for the configured remote.
func (a *app) syncSession() (*config.Configuration, *zap.Logger, *remotesync.Client, error) {
	conf, logger, err := a.load()
	if err != nil {
		return nil, nil, nil, err
	}
	if conf.Sync.Endpoint == "" {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("sync.endpoint is not configured")
	}

	client := remotesync.NewClient(remotesync.Config{
		Endpoint: conf.Sync.Endpoint,
		APIKey:   conf.Sync.APIKey,
		Timeout:  conf.Sync.Timeout,
		RetryMax: conf.Sync.RetryMax,
	}, logger)
	return conf, logger, client, nil
}

func (a *app) newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Replace the remote household with the stored one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, client, err := a.syncSession()
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
			if err := client.Push(cmd.Context(), snapshot); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Pushed %d debt(s) to %s\n", len(snapshot.Debts), client.URL("/push"))
			return nil
		},
	}
}

func (a *app) newSyncPullCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Replace the stored household with the remote one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, client, err := a.syncSession()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			snapshot, err := client.Pull(cmd.Context())
			if err != nil {
				return err
			}
			if err := validation.ValidateSnapshot(snapshot); err != nil {
				return fmt.Errorf("remote household rejected: %w", err)
			}

			if file != "" {
				if err := snapshotio.WriteFile(file, snapshot); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Pulled %d debt(s) into %s\n", len(snapshot.Debts), file)
				return nil
			}

			st, err := openStore(conf.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Save(cmd.Context(), snapshot); err != nil {
				return fmt.Errorf("failed to save household: %w", err)
			}
			fmt.Fprintf(a.out, "Pulled %d debt(s) into the %s store\n", len(snapshot.Debts), conf.Store.Driver)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "write the pulled household to a snapshot file instead of the store")
	return cmd
}

func (a *app) newSyncHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the remote is reachable and has storage attached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, client, err := a.syncSession()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			status, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Remote: %s (database %s)\n", status.Status, status.Database)
			if status.Message != "" {
				fmt.Fprintf(a.out, "  %s\n", status.Message)
			}
			if !status.OK() {
				logger.Warn("remote is not fully available",
					zap.String("op", "sync.health"),
					zap.String("status", status.Status),
				)
			}
			return nil
		},
	}
}
