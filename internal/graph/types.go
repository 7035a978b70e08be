package graph

import (
	"fmt"
	"strings"
)

// TaskID identifies a task within a graph. It is never empty.
type TaskID string

// DependencyType relates a boundary of the predecessor to a boundary of the
// successor.
type DependencyType string

const (
	FS DependencyType = "FS" // finish-to-start
	SS DependencyType = "SS" // start-to-start
	FF DependencyType = "FF" // finish-to-finish
	SF DependencyType = "SF" // start-to-finish
)

// ParseDependencyType accepts FS, SS, FF and SF in any case. An empty string
// means FS.
func ParseDependencyType(s string) (DependencyType, error) {
	switch DependencyType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", FS:
		return FS, nil
	case SS:
		return SS, nil
	case FF:
		return FF, nil
	case SF:
		return SF, nil
	}
	return "", invalidf(ErrInvalidDependencyType, "unknown dependency type %q (use FS, SS, FF or SF)", s)
}

// Dependency is one edge of the graph seen from one of its ends. In a task's
// predecessor list Target is the predecessor; in its successor list Target is
// the successor. Type and Lag are identical on both mirrors.
type Dependency struct {
	Target TaskID         `json:"id"`
	Type   DependencyType `json:"type"`
	Lag    int            `json:"lag"`
}

// String renders the dependency compactly: "B", "B-SS", "B2", "B-SF-1".
func (d Dependency) String() string {
	s := string(d.Target)
	if d.Type != FS {
		s += "-" + string(d.Type)
	}
	if d.Lag != 0 {
		s += fmt.Sprintf("%d", d.Lag)
	}
	return s
}

// TimingValues holds the CPM values of a task. Earliest values are valid after
// a forward pass, latest values and slack after a backward pass.
type TimingValues struct {
	EarliestStart  int
	EarliestFinish int
	LatestStart    int
	LatestFinish   int
	Slack          int

	hasEarliest bool
	hasLatest   bool
}

// HasEarliest reports whether EarliestStart and EarliestFinish are computed.
func (v TimingValues) HasEarliest() bool { return v.hasEarliest }

// HasLatest reports whether LatestStart, LatestFinish and Slack are computed.
func (v TimingValues) HasLatest() bool { return v.hasLatest }

// Task is a node of the graph. It is owned by its TaskGraph and only changes
// through graph operations.
type Task struct {
	id           TaskID
	duration     int
	predecessors []Dependency
	successors   []Dependency
	timing       TimingValues
}

// ID returns the task's id.
func (t *Task) ID() TaskID { return t.id }

// Duration returns the task's duration in time units.
func (t *Task) Duration() int { return t.duration }

// Predecessors returns a copy of the task's predecessor dependencies in the
// order they were added.
func (t *Task) Predecessors() []Dependency {
	return append([]Dependency(nil), t.predecessors...)
}

// Successors returns a copy of the task's successor dependencies in the order
// they were added.
func (t *Task) Successors() []Dependency {
	return append([]Dependency(nil), t.successors...)
}

// Timing returns the task's current timing values.
func (t *Task) Timing() TimingValues { return t.timing }

// IsCritical reports whether the task has zero slack after a backward pass.
func (t *Task) IsCritical() bool {
	return t.timing.hasLatest && t.timing.Slack == 0
}

func (t *Task) String() string { return string(t.id) }

func (t *Task) hasPredecessor(id TaskID) bool {
	for _, d := range t.predecessors {
		if d.Target == id {
			return true
		}
	}
	return false
}
