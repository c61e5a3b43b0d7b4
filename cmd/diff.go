package cmd

import (
	"context"
	"fmt"

	"scene-mirror/core/database"
	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/proxy"
	"scene-mirror/core/reconcile"
	"scene-mirror/core/schema"
	"scene-mirror/core/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	diffAgainstSnapshot bool
	diffJSON            bool
)

// diffCmd compares two scene documents, or a document with the latest snapshot.
var diffCmd = &cobra.Command{
	Use:   "diff [<old>] <new>",
	Short: "Report the changes between two scene documents",
	Long: `Loads <old> into a proxy tree and reconciles it with <new>: entities added,
removed, renamed (same "_uuid" under another name) and attribute updates.

Examples:
  # Compare two documents
  diff before.yaml after.yaml

  # Compare a document with the latest snapshot of the session
  diff --snapshot after.yaml

  # Print the full plan
  diff before.yaml after.yaml --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffAgainstSnapshot, "snapshot", false, "Use the latest snapshot of the session as the old side")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Print the plan as JSON")
	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	if diffAgainstSnapshot != (len(args) == 1) {
		return fmt.Errorf("expected either two documents or --snapshot with one document")
	}

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	var old *proxy.Root
	if diffAgainstSnapshot {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		snap, err := snapshot.NewRepository(db, l).Latest(context.Background(), cfg.Mirror.Session)
		if err != nil {
			return err
		}
		if old, err = snapshot.Restore(snap); err != nil {
			return err
		}
		l.Info("Comparing with snapshot", zap.String("fingerprint", snap.Fingerprint))
	} else if old, _, err = loadDocument(args[0], cfg.Mirror.Filter, cfg.Mirror.MaxDepth, l); err != nil {
		return err
	}

	cur, err := host.LoadScene(schema.Builtin(), args[len(args)-1])
	if err != nil {
		return err
	}
	ld := proxy.NewLoader(cur, filter.New(cur.Registry(), cfg.Mirror.Filter), l, proxy.WithMaxDepth(cfg.Mirror.MaxDepth))

	_, plan, err := reconcile.Compute(old, ld)
	if err != nil {
		return fmt.Errorf("failed to compute plan: %w", err)
	}

	printPlanReport(l, plan)
	if diffJSON {
		return printJSON(plan)
	}
	return nil
}

// printPlanReport logs the plan summary and a sample of the changes.
func printPlanReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary
	l.Info("Diff report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("added", s.Added),
		zap.Int("removed", s.Removed),
		zap.Int("renamed", s.Renamed),
		zap.Int("updated", s.Updated),
		zap.Int("unchanged", s.Unchanged),
	)

	shown := 0
	for _, r := range plan.Results {
		if r.Status == reconcile.StatusUnchanged {
			continue
		}
		if shown == 10 {
			l.Info("Additional changes not shown", zap.Int("count", s.TotalItems-s.Unchanged-shown))
			return
		}
		fields := []zap.Field{
			zap.String("status", string(r.Status)),
			zap.String("collection", r.Collection),
			zap.String("key", r.Key),
		}
		if r.Previous != "" {
			fields = append(fields, zap.String("previous", r.Previous))
		}
		if len(r.Changes) > 0 {
			fields = append(fields, zap.Strings("changes", r.Changes))
		}
		l.Info("Change", fields...)
		shown++
	}
}
