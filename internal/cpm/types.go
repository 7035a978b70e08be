package cpm

import (
	"encoding/json"

	"github.com/joshharrison/netdiagram/internal/graph"
)

// Result holds the complete critical path analysis of one graph.
type Result struct {
	Tasks         map[string]*TaskSchedule
	Order         []string // graph insertion order
	CriticalPaths []Path
	ProjectEnd    int
	Waves         []Wave
}

// TaskSchedule holds the scheduling info for a single task.
type TaskSchedule struct {
	TaskID       string             `json:"id"`
	Duration     int                `json:"duration"`
	Predecessors []string           `json:"predecessors,omitempty"` // rendered dependencies, e.g. "B-SS2"
	Dependencies []graph.Dependency `json:"-"`
	ES           int                `json:"es"`
	EF           int                `json:"ef"`
	LS           int                `json:"ls"`
	LF           int                `json:"lf"`
	Slack        int                `json:"slack"`
	IsCritical   bool               `json:"critical"`
	Wave         int                `json:"wave"`
}

// Wave is a group of tasks sharing the same earliest start.
type Wave struct {
	Index      int      `json:"index"`
	Start      int      `json:"start"`
	TaskIDs    []string `json:"tasks"`
	IsCritical bool     `json:"critical"` // true if the wave contains a critical task
}

// MarshalJSON renders tasks in insertion order and paths as id lists.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProjectEnd    int             `json:"project_end"`
		Tasks         []*TaskSchedule `json:"tasks"`
		CriticalPaths [][]string      `json:"critical_paths"`
		Waves         []Wave          `json:"waves"`
	}{
		ProjectEnd:    r.ProjectEnd,
		Tasks:         r.Schedules(),
		CriticalPaths: r.PathIDs(),
		Waves:         r.Waves,
	})
}
