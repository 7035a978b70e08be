// Package taskdata reads task lists from files and turns them into task graphs.
package taskdata

import (
	"context"
	"fmt"
	"strings"
)

// Record is one entry of a task list, before any validation by the graph.
type Record struct {
	ID           string
	Duration     int
	Predecessors []PredecessorRecord
}

// PredecessorRecord names a predecessor of a Record. An empty Type means
// finish-to-start.
type PredecessorRecord struct {
	ID   string
	Type string
	Lag  int
}

// Source supplies task records.
type Source interface {
	Read(ctx context.Context) ([]Record, error)
}

// ParseError reports malformed task data. Index is the position of the
// offending record, or -1 when the document as a whole is bad.
type ParseError struct {
	Source string
	Index  int
	Msg    string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, "task %d: ", e.Index)
	}
	b.WriteString(e.Msg)
	return b.String()
}
