package graph

import "fmt"

// topoOrder performs Kahn's algorithm for topological sorting. Roots are taken
// in insertion order and successors in the order their edges were added, so the
// result is deterministic for a given construction sequence.
func (g *TaskGraph) topoOrder() []*Task {
	inDegree := make(map[TaskID]int, len(g.tasks))
	var queue []TaskID
	for _, id := range g.order {
		inDegree[id] = len(g.tasks[id].predecessors)
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]*Task, 0, len(g.tasks))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		t := g.tasks[id]
		order = append(order, t)

		for _, d := range t.successors {
			inDegree[d.Target]--
			if inDegree[d.Target] == 0 {
				queue = append(queue, d.Target)
			}
		}
	}

	if len(order) != len(g.tasks) {
		// Cycles are rejected when dependencies are added.
		panic(fmt.Sprintf("graph: topological sort stalled at %d of %d tasks, cycle %v",
			len(order), len(g.tasks), g.DetectCycle()))
	}
	return order
}

// ForwardPass computes earliest start and finish for every task and returns
// the project end, the maximum earliest finish.
func ForwardPass(g *TaskGraph) int {
	projectEnd := 0
	for _, t := range g.topoOrder() {
		es := 0
		for _, d := range t.predecessors {
			pred := g.tasks[d.Target].timing
			switch d.Type {
			case FS:
				es = max(es, pred.EarliestFinish+d.Lag)
			case SS:
				es = max(es, pred.EarliestStart+d.Lag)
			case FF:
				es = max(es, pred.EarliestFinish-t.duration+d.Lag)
			case SF:
				es = max(es, pred.EarliestStart-t.duration+d.Lag)
			}
		}
		t.timing.EarliestStart = es
		t.timing.EarliestFinish = es + t.duration
		t.timing.hasEarliest = true
		projectEnd = max(projectEnd, t.timing.EarliestFinish)
	}
	g.projectEnd = projectEnd
	return projectEnd
}

// BackwardPass computes latest start, latest finish and slack for every task,
// seeded by projectEnd. Earliest values must already be valid for every task.
func BackwardPass(g *TaskGraph, projectEnd int) error {
	for _, t := range g.tasks {
		if !t.timing.hasEarliest {
			return invalidf(ErrInvalidTimingState, "earliest values of task %s have not been calculated", t.id)
		}
	}

	order := g.topoOrder()
	for i := len(order) - 1; i >= 0; i-- {
		t := order[i]
		lf := projectEnd
		for _, d := range t.successors {
			succ := g.tasks[d.Target].timing
			switch d.Type {
			case FS:
				lf = min(lf, succ.LatestStart-d.Lag)
			case SS:
				lf = min(lf, succ.LatestStart+t.duration-d.Lag)
			case FF:
				lf = min(lf, succ.LatestFinish-d.Lag)
			case SF:
				lf = min(lf, succ.LatestFinish+t.duration-d.Lag)
			}
		}
		t.timing.LatestFinish = lf
		t.timing.LatestStart = lf - t.duration
		t.timing.Slack = lf - t.timing.EarliestFinish
		t.timing.hasLatest = true
	}
	return nil
}
