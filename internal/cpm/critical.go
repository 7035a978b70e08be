package cpm

import (
	"fmt"

	"github.com/joshharrison/netdiagram/internal/graph"
)

// CriticalPaths enumerates the critical paths of a graph whose timing is
// current.
//
// Zero-slack tasks are visited in sweeps: each sweep takes the critical tasks
// none of whose critical predecessors are still unvisited, in insertion order.
// A visited task extends every path whose last task is one of its
// predecessors. A path that contains a predecessor but has already moved on
// along another branch is forked: its last task is replaced by the visited
// task and the copy is added. A task matching no path starts a new one.
func CriticalPaths(g *graph.TaskGraph) []Path {
	working := g.CriticalTasks()
	var paths []Path

	for len(working) > 0 {
		pending := make(map[graph.TaskID]bool, len(working))
		for _, t := range working {
			pending[t.ID()] = true
		}

		var ready, rest []*graph.Task
		for _, t := range working {
			if dependsOnAny(t, pending) {
				rest = append(rest, t)
			} else {
				ready = append(ready, t)
			}
		}
		if len(ready) == 0 {
			panic(fmt.Sprintf("cpm: critical path sweep stalled with %d tasks left", len(rest)))
		}

		for _, t := range ready {
			paths = addToPaths(t, paths)
		}
		working = rest
	}
	return paths
}

func addToPaths(t *graph.Task, paths []Path) []Path {
	matched := false
	// Paths appended during this call are not revisited.
	n := len(paths)
	for i := 0; i < n; i++ {
		p := paths[i]
		preds := predecessorsOn(t, p)
		if len(preds) == 0 {
			continue
		}
		matched = true
		if preds[p.Last().ID()] {
			paths[i] = p.Append(t)
		} else {
			paths = append(paths, p.DropLast().Append(t))
		}
	}
	if !matched {
		paths = append(paths, NewPath(t))
	}
	return paths
}

// predecessorsOn returns the predecessors of t that occur anywhere on p.
func predecessorsOn(t *graph.Task, p Path) map[graph.TaskID]bool {
	out := make(map[graph.TaskID]bool)
	for _, d := range t.Predecessors() {
		if p.Contains(d.Target) {
			out[d.Target] = true
		}
	}
	return out
}

func dependsOnAny(t *graph.Task, ids map[graph.TaskID]bool) bool {
	for _, d := range t.Predecessors() {
		if ids[d.Target] {
			return true
		}
	}
	return false
}
