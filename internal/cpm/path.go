package cpm

import (
	"strings"

	"github.com/joshharrison/netdiagram/internal/graph"
)

// Path is an immutable sequence of tasks. It references tasks owned by a
// graph and never modifies them.
type Path struct {
	tasks []*graph.Task
}

// NewPath returns a path over the given tasks.
func NewPath(tasks ...*graph.Task) Path {
	return Path{tasks: append([]*graph.Task(nil), tasks...)}
}

// Tasks returns a copy of the path's tasks.
func (p Path) Tasks() []*graph.Task {
	return append([]*graph.Task(nil), p.tasks...)
}

func (p Path) Len() int { return len(p.tasks) }

func (p Path) At(i int) *graph.Task { return p.tasks[i] }

func (p Path) Last() *graph.Task { return p.tasks[len(p.tasks)-1] }

// Append returns a new path with t added at the end.
func (p Path) Append(t *graph.Task) Path {
	return Path{tasks: append(p.Tasks(), t)}
}

// DropLast returns the path without its last task.
func (p Path) DropLast() Path {
	return Path{tasks: p.Tasks()[:len(p.tasks)-1]}
}

// Contains reports whether a task with the given id is on the path.
func (p Path) Contains(id graph.TaskID) bool {
	for _, t := range p.tasks {
		if t.ID() == id {
			return true
		}
	}
	return false
}

// IDs returns the ids of the path's tasks in order.
func (p Path) IDs() []string {
	ids := make([]string, len(p.tasks))
	for i, t := range p.tasks {
		ids[i] = string(t.ID())
	}
	return ids
}

func (p Path) String() string {
	return strings.Join(p.IDs(), " -> ")
}
