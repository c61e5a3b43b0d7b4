package cmd

import (
	"context"
	"fmt"
	"os"

	"scene-mirror/core/codec"
	"scene-mirror/core/database"
	"scene-mirror/core/snapshot"
	"scene-mirror/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotsLimit  int
	snapshotsRemote bool
	purgeConfirm    bool
)

// snapshotsCmd is the parent command for snapshot maintenance.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect and maintain stored snapshots",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the snapshots of the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()
		ctx := context.Background()

		if snapshotsRemote {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to connect to storage: %w", err)
			}
			fps, err := snapshot.NewExporter(client, cfg.Storage.Bucket, l).List(ctx, cfg.Mirror.Session)
			if err != nil {
				return err
			}
			return printJSON(fps)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repo := snapshot.NewRepository(db, l)
		if err := repo.Verify(); err != nil {
			return err
		}
		snaps, err := repo.List(ctx, cfg.Mirror.Session, snapshotsLimit)
		if err != nil {
			return err
		}
		return printJSON(snaps)
	},
}

var snapshotsFetchCmd = &cobra.Command{
	Use:   "fetch <fingerprint>",
	Short: "Download an exported snapshot and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		snap, err := snapshot.NewExporter(client, cfg.Storage.Bucket, l).Fetch(context.Background(), cfg.Mirror.Session, args[0])
		if err != nil {
			return err
		}
		if got := codec.FingerprintBytes(snap.Payload); got != args[0] {
			l.Warn("Fingerprint mismatch", zap.String("expected", args[0]), zap.String("actual", got))
		}
		root, err := snapshot.Restore(snap)
		if err != nil {
			return err
		}
		return printJSON(codec.View(root))
	},
}

var snapshotsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every exported snapshot of the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		if !purgeConfirm {
			fmt.Fprintln(os.Stderr, "Refusing to purge without --yes")
			return nil
		}
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		n, err := snapshot.NewExporter(client, cfg.Storage.Bucket, l).Purge(context.Background(), cfg.Mirror.Session)
		if err != nil {
			return err
		}
		l.Info("Purge complete", zap.Int("removed", n))
		return nil
	},
}

func init() {
	snapshotsListCmd.Flags().IntVar(&snapshotsLimit, "limit", 20, "Maximum number of snapshots")
	snapshotsListCmd.Flags().BoolVar(&snapshotsRemote, "remote", false, "List exported snapshots in object storage")
	snapshotsPurgeCmd.Flags().BoolVar(&purgeConfirm, "yes", false, "Confirm the deletion")

	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsFetchCmd, snapshotsPurgeCmd)
	RootCmd.AddCommand(snapshotsCmd)
}
