// Package render writes schedule analyses for terminals and other tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/joshharrison/netdiagram/internal/cpm"
	"github.com/joshharrison/netdiagram/internal/ui"
)

// Renderer writes one view of an analysis.
type Renderer interface {
	Render(w io.Writer, r *cpm.Result) error
}

// Func adapts a plain function to Renderer.
type Func func(w io.Writer, r *cpm.Result) error

func (f Func) Render(w io.Writer, r *cpm.Result) error { return f(w, r) }

var renderers = map[string]Renderer{
	"schedule": Func(Schedule),
	"table":    Func(Table),
	"paths":    Func(Paths),
	"gantt":    Gantt{Width: DefaultGanttWidth},
	"dot":      Func(DOT),
	"json":     Func(JSON),
	"waves":    Func(Waves),
	"ascii":    Func(ASCII),
}

// ByName returns the renderer registered under name.
func ByName(name string) (Renderer, error) {
	r, ok := renderers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return r, nil
}

// Names lists the registered renderer names, sorted.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for n := range renderers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Schedule writes the task table followed by the critical paths.
func Schedule(w io.Writer, r *cpm.Result) error {
	if err := Table(w, r); err != nil {
		return err
	}
	return Paths(w, r)
}

// Table writes one row per task in insertion order. Critical tasks are
// marked with a star.
func Table(w io.Writer, r *cpm.Result) error {
	if _, err := fmt.Fprintf(w, "%s %5s %4s %4s %4s %4s %4s %6s\n", " ", "ID", "DUR", "ES", "EF", "LS", "LF", "SLACK"); err != nil {
		return err
	}
	for _, ts := range r.Schedules() {
		_, err := fmt.Fprintf(w, "%s %5s %4d %4d %4d %4d %4d %s\n",
			ui.Marker(ts.IsCritical), ts.TaskID, ts.Duration, ts.ES, ts.EF, ts.LS, ts.LF, ui.Slack(6, ts.Slack))
		if err != nil {
			return err
		}
	}
	return nil
}

// Paths writes each critical path on its own line, ending in "end".
func Paths(w io.Writer, r *cpm.Result) error {
	for _, p := range r.CriticalPaths {
		var b strings.Builder
		for _, id := range p.IDs() {
			fmt.Fprintf(&b, "%5s ->", id)
		}
		b.WriteString(" end\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes the analysis as an indented JSON document.
func JSON(w io.Writer, r *cpm.Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Waves writes tasks grouped by earliest start, critical tasks first.
func Waves(w io.Writer, r *cpm.Result) error {
	for _, wave := range r.Waves {
		label := ui.BoldWhite("WAVE")
		fmt.Fprintf(w, "%s %d  %s  (%d tasks)\n", label, wave.Index+1, ui.Dim(fmt.Sprintf("start %d", wave.Start)), len(wave.TaskIDs))
		for _, id := range wave.TaskIDs {
			ts := r.Tasks[id]
			if _, err := fmt.Fprintf(w, "  %s %-8s dur %-4d slack %d\n", ui.Marker(ts.IsCritical), id, ts.Duration, ts.Slack); err != nil {
				return err
			}
		}
	}
	return nil
}

// ASCII writes the dependency graph wave by wave, listing each task's
// successors beneath it.
func ASCII(w io.Writer, r *cpm.Result) error {
	successors := make(map[string][]string)
	for _, ts := range r.Schedules() {
		for _, d := range ts.Dependencies {
			successors[string(d.Target)] = append(successors[string(d.Target)], ts.TaskID)
		}
	}

	var b strings.Builder
	for _, wave := range r.Waves {
		fmt.Fprintf(&b, "%s %s %s\n", ui.Cyan("--"), ui.BoldCyan(fmt.Sprintf("Wave %d", wave.Index+1)), ui.Cyan(strings.Repeat("-", 30)))
		for _, id := range wave.TaskIDs {
			fmt.Fprintf(&b, "  %s [%s] dur %d\n", ui.Marker(r.Tasks[id].IsCritical), ui.Bold(id), r.Tasks[id].Duration)
			for _, succ := range successors[id] {
				fmt.Fprintf(&b, "      %s %s\n", ui.Dim("`-->"), succ)
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
