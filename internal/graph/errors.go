package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTaskID           = errors.New("empty task id")
	ErrInvalidDuration       = errors.New("invalid duration")
	ErrInvalidDependencyType = errors.New("invalid dependency type")
	ErrDuplicateKey          = errors.New("duplicate task key")
	ErrKeyNotFound           = errors.New("task key not found")
	ErrSelfDependency        = errors.New("self dependency")
	ErrDuplicateDependency   = errors.New("duplicate dependency")
	ErrCircularDependency    = errors.New("circular dependency")
	ErrInvalidTimingState    = errors.New("invalid timing state")
)

// GraphError reports a rejected graph mutation or query. Kind is one of the
// Err* sentinels above.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidf(kind error, format string, args ...any) error {
	return &GraphError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// CycleError reports a dependency that would close a cycle. Chain starts and
// ends with the same task and follows successor direction.
type CycleError struct {
	Chain []TaskID
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Chain))
	for i, id := range e.Chain {
		ids[i] = string(id)
	}
	return fmt.Sprintf("%s: %s", ErrCircularDependency.Error(), strings.Join(ids, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCircularDependency }
