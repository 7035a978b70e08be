package cpm

import (
	"sort"

	"github.com/joshharrison/netdiagram/internal/graph"
)

// Analyze collects the schedule of a graph: per-task timing, the project end,
// the critical paths and the waves of tasks sharing an earliest start.
func Analyze(g *graph.TaskGraph) (*Result, error) {
	result := &Result{
		Tasks:      make(map[string]*TaskSchedule, g.Len()),
		ProjectEnd: g.ProjectEnd(),
	}

	for _, t := range g.Tasks() {
		v := t.Timing()
		if !v.HasEarliest() || !v.HasLatest() {
			return nil, &graph.GraphError{Kind: graph.ErrInvalidTimingState, Msg: "task " + string(t.ID()) + " has no computed timing"}
		}

		id := string(t.ID())
		ts := &TaskSchedule{
			TaskID:     id,
			Duration:   t.Duration(),
			ES:         v.EarliestStart,
			EF:         v.EarliestFinish,
			LS:         v.LatestStart,
			LF:         v.LatestFinish,
			Slack:      v.Slack,
			IsCritical: t.IsCritical(),
		}
		ts.Dependencies = t.Predecessors()
		for _, d := range ts.Dependencies {
			ts.Predecessors = append(ts.Predecessors, d.String())
		}
		result.Tasks[id] = ts
		result.Order = append(result.Order, id)
	}

	result.CriticalPaths = CriticalPaths(g)
	result.Waves = computeWaves(result)
	return result, nil
}

// PathIDs returns the critical paths as task id lists.
func (r *Result) PathIDs() [][]string {
	out := make([][]string, len(r.CriticalPaths))
	for i, p := range r.CriticalPaths {
		out[i] = p.IDs()
	}
	return out
}

// Schedules returns the task schedules in graph insertion order.
func (r *Result) Schedules() []*TaskSchedule {
	out := make([]*TaskSchedule, len(r.Order))
	for i, id := range r.Order {
		out[i] = r.Tasks[id]
	}
	return out
}

// computeWaves groups tasks by their earliest start time.
func computeWaves(result *Result) []Wave {
	esGroups := make(map[int][]string)
	for _, id := range result.Order {
		es := result.Tasks[id].ES
		esGroups[es] = append(esGroups[es], id)
	}

	esValues := make([]int, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Ints(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		taskIDs := esGroups[es]

		hasCritical := false
		for _, id := range taskIDs {
			result.Tasks[id].Wave = i
			if result.Tasks[id].IsCritical {
				hasCritical = true
			}
		}

		// Critical tasks first within a wave, otherwise insertion order.
		sort.SliceStable(taskIDs, func(a, b int) bool {
			return result.Tasks[taskIDs[a]].IsCritical && !result.Tasks[taskIDs[b]].IsCritical
		})

		waves[i] = Wave{
			Index:      i,
			Start:      es,
			TaskIDs:    taskIDs,
			IsCritical: hasCritical,
		}
	}

	return waves
}
