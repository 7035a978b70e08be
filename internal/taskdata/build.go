package taskdata

import (
	"context"
	"fmt"

	"github.com/joshharrison/netdiagram/internal/ctxlog"
	"github.com/joshharrison/netdiagram/internal/graph"
)

// Build ingests records into a new graph: first every task, then every
// predecessor, so records may reference tasks defined later in the list.
// Timing is computed once, after the last dependency.
func Build(ctx context.Context, records []Record) (*graph.TaskGraph, error) {
	g := graph.New()
	err := g.Batch(func() error {
		for _, r := range records {
			if err := g.AddTask(graph.TaskID(r.ID), r.Duration); err != nil {
				return fmt.Errorf("add task %q: %w", r.ID, err)
			}
		}
		for _, r := range records {
			for _, p := range r.Predecessors {
				if err := g.AddDependency(graph.TaskID(r.ID), graph.TaskID(p.ID), graph.DependencyType(p.Type), p.Lag); err != nil {
					return fmt.Errorf("add dependency %q -> %q: %w", p.ID, r.ID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("graph built", "tasks", g.Len(), "project_end", g.ProjectEnd())
	return g, nil
}

// Load reads src and builds its graph.
func Load(ctx context.Context, src Source) (*graph.TaskGraph, error) {
	records, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	return Build(ctx, records)
}
