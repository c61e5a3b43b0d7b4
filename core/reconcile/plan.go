package reconcile

import (
	"fmt"

	"scene-mirror/core/proxy"
)

// Apply brings root up to date with delta. It returns the number of entities
// touched. Nothing is applied when opts.DryRun is set.
func Apply(root *proxy.Root, l *proxy.Loader, delta *proxy.Delta, opts Options) (int, error) {
	if opts.DryRun || delta == nil || delta.Empty() {
		return 0, nil
	}

	executed := 0
	for _, cd := range delta.Collections {
		executed += len(cd.Added) + len(cd.Removed) + len(cd.Renamed) + len(cd.Updated)
	}

	if err := root.Update(l, delta); err != nil {
		return 0, fmt.Errorf("failed to apply delta: %w", err)
	}
	return executed, nil
}

// Sync is a convenience wrapper that computes the plan and optionally applies it.
// It returns the plan, the number of entities touched, and any error.
func Sync(root *proxy.Root, l *proxy.Loader, opts Options) (*Plan, int, error) {
	delta, plan, err := Compute(root, l)
	if err != nil {
		return nil, 0, err
	}

	executed, err := Apply(root, l, delta, opts)
	return plan, executed, err
}

// buildPlan aggregates reconciliation results into a plan.
func buildPlan(results []Result) *Plan {
	var summary PlanSummary

	summary.TotalItems = len(results)

	for _, result := range results {
		switch result.Status {
		case StatusAdded:
			summary.Added++
		case StatusRemoved:
			summary.Removed++
		case StatusRenamed:
			summary.Renamed++
			// a renamed entity may carry attribute changes as well
			if len(result.Changes) > 0 {
				summary.Updated++
			}
		case StatusUpdated:
			summary.Updated++
		case StatusUnchanged:
			summary.Unchanged++
		}
	}

	if results == nil {
		results = []Result{}
	}
	return &Plan{
		Results: results,
		Summary: summary,
	}
}
