package graph

// TaskGraph is a directed acyclic graph of tasks with their CPM timing.
//
// Every successful mutation runs a full forward and backward pass, so queries
// between mutations always see propagated values. Use Batch to defer the passes
// while ingesting many tasks. A TaskGraph is not safe for concurrent use.
type TaskGraph struct {
	tasks      map[TaskID]*Task
	order      []TaskID // insertion order
	projectEnd int

	batching bool
}

// New returns an empty graph.
func New() *TaskGraph {
	return &TaskGraph{tasks: make(map[TaskID]*Task)}
}

// AddTask inserts a task with no dependencies.
func (g *TaskGraph) AddTask(id TaskID, duration int) error {
	if id == "" {
		return invalidf(ErrEmptyTaskID, "task id is required")
	}
	if duration < 0 {
		return invalidf(ErrInvalidDuration, "task %s: duration must be non-negative, got %d", id, duration)
	}
	if _, exists := g.tasks[id]; exists {
		return invalidf(ErrDuplicateKey, "task id %s already exists", id)
	}

	g.tasks[id] = &Task{id: id, duration: duration}
	g.order = append(g.order, id)
	g.changed()
	return nil
}

// AddDependency makes predID a predecessor of taskID. Nothing is modified when
// an error is returned.
func (g *TaskGraph) AddDependency(taskID, predID TaskID, typ DependencyType, lag int) error {
	task, ok := g.tasks[taskID]
	if !ok {
		return invalidf(ErrKeyNotFound, "task %s does not exist", taskID)
	}
	pred, ok := g.tasks[predID]
	if !ok {
		return invalidf(ErrKeyNotFound, "predecessor %s of task %s does not exist", predID, taskID)
	}
	typ, err := ParseDependencyType(string(typ))
	if err != nil {
		return err
	}
	if taskID == predID {
		return invalidf(ErrSelfDependency, "task %s cannot be its own predecessor", taskID)
	}
	if task.hasPredecessor(predID) {
		return invalidf(ErrDuplicateDependency, "task %s already has predecessor %s", taskID, predID)
	}
	if err := g.checkCycle(taskID, predID); err != nil {
		return err
	}

	task.predecessors = append(task.predecessors, Dependency{Target: predID, Type: typ, Lag: lag})
	pred.successors = append(pred.successors, Dependency{Target: taskID, Type: typ, Lag: lag})
	g.changed()
	return nil
}

// Task returns the task with the given id.
func (g *TaskGraph) Task(id TaskID) (*Task, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, invalidf(ErrKeyNotFound, "task %s does not exist", id)
	}
	return t, nil
}

// Tasks returns all tasks in insertion order.
func (g *TaskGraph) Tasks() []*Task {
	out := make([]*Task, len(g.order))
	for i, id := range g.order {
		out[i] = g.tasks[id]
	}
	return out
}

// Len returns the number of tasks in the graph.
func (g *TaskGraph) Len() int {
	return len(g.tasks)
}

// ProjectEnd returns the project end computed by the last forward pass.
func (g *TaskGraph) ProjectEnd() int {
	return g.projectEnd
}

// Roots returns the tasks without predecessors, in insertion order.
func (g *TaskGraph) Roots() []*Task {
	return g.filter(func(t *Task) bool { return len(t.predecessors) == 0 })
}

// Leaves returns the tasks without successors, in insertion order.
func (g *TaskGraph) Leaves() []*Task {
	return g.filter(func(t *Task) bool { return len(t.successors) == 0 })
}

// CriticalTasks returns the zero-slack tasks, in insertion order.
func (g *TaskGraph) CriticalTasks() []*Task {
	return g.filter((*Task).IsCritical)
}

// Recompute runs a forward and a backward pass. It is idempotent.
func (g *TaskGraph) Recompute() {
	g.invalidate()
	end := ForwardPass(g)
	if err := BackwardPass(g, end); err != nil {
		// The forward pass just made every earliest value valid.
		panic(err)
	}
}

// Batch runs fn with recomputation suspended and recomputes once afterwards,
// whether or not fn fails. Mutations inside fn are still validated one by one;
// queries inside fn see invalidated timing.
func (g *TaskGraph) Batch(fn func() error) error {
	if g.batching {
		return fn()
	}
	g.batching = true
	defer func() {
		g.batching = false
		g.Recompute()
	}()
	return fn()
}

func (g *TaskGraph) changed() {
	g.invalidate()
	if !g.batching {
		g.Recompute()
	}
}

// invalidate drops the timing of every task: any mutation can shift values
// anywhere in the graph.
func (g *TaskGraph) invalidate() {
	for _, t := range g.tasks {
		t.timing = TimingValues{}
	}
	g.projectEnd = 0
}

func (g *TaskGraph) filter(keep func(*Task) bool) []*Task {
	var out []*Task
	for _, id := range g.order {
		if t := g.tasks[id]; keep(t) {
			out = append(out, t)
		}
	}
	return out
}
