package graph

// forwardChain returns the task ids on a successor walk from -> ... -> to, or
// nil if to is not reachable from from. It is the check run before a
// dependency "from depends on to" is added: if to already follows from, the
// new edge would close a cycle.
func (g *TaskGraph) forwardChain(from, to TaskID) []TaskID {
	visited := make(map[TaskID]bool)
	var chain []TaskID

	var dfs func(id TaskID) bool
	dfs = func(id TaskID) bool {
		visited[id] = true
		chain = append(chain, id)
		if id == to {
			return true
		}
		for _, d := range g.tasks[id].successors {
			if visited[d.Target] {
				continue
			}
			if dfs(d.Target) {
				return true
			}
		}
		chain = chain[:len(chain)-1]
		return false
	}

	if dfs(from) {
		return chain
	}
	return nil
}

// checkCycle rejects the dependency task <- pred when pred is already
// reachable from task over successors.
func (g *TaskGraph) checkCycle(task, pred TaskID) error {
	chain := g.forwardChain(task, pred)
	if chain == nil {
		return nil
	}
	return &CycleError{Chain: append(chain, task)}
}

// DetectCycle returns a cycle in successor order if one exists, or nil if the
// graph is acyclic. Mutations keep the graph acyclic, so a non-nil result
// means the graph invariant has been broken.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (g *TaskGraph) DetectCycle() []TaskID {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[TaskID]int)
	parent := make(map[TaskID]TaskID)

	var dfs func(id TaskID) []TaskID
	dfs = func(id TaskID) []TaskID {
		color[id] = gray
		for _, d := range g.tasks[id].successors {
			next := d.Target
			if color[next] == gray {
				cycle := []TaskID{next, id}
				cur := id
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = id
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[id] = black
		return nil
	}

	for _, id := range g.order {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
