package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/netdiagram/internal/cpm"
	"github.com/joshharrison/netdiagram/internal/graph"
)

// DOT writes the network as a Graphviz digraph. Critical tasks and the edges
// between consecutive tasks of a critical path are drawn in red.
func DOT(w io.Writer, r *cpm.Result) error {
	criticalEdges := make(map[[2]string]bool)
	for _, p := range r.CriticalPaths {
		ids := p.IDs()
		for i := 1; i < len(ids); i++ {
			criticalEdges[[2]string{ids[i-1], ids[i]}] = true
		}
	}

	var b strings.Builder
	b.WriteString("digraph netdiagram {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	for _, ts := range r.Schedules() {
		label := fmt.Sprintf("%s (%d)\\nES %d  EF %d\\nLS %d  LF %d\\nslack %d",
			dotEscape(ts.TaskID), ts.Duration, ts.ES, ts.EF, ts.LS, ts.LF, ts.Slack)
		attrs := ""
		if ts.IsCritical {
			attrs = ", color=red, penwidth=2"
		}
		fmt.Fprintf(&b, "  \"%s\" [label=\"%s\"%s];\n", dotEscape(ts.TaskID), label, attrs)
	}

	for _, ts := range r.Schedules() {
		for _, d := range ts.Dependencies {
			from := string(d.Target)
			var attrs []string
			if l := edgeLabel(d); l != "" {
				attrs = append(attrs, fmt.Sprintf("label=\"%s\"", l))
			}
			if criticalEdges[[2]string{from, ts.TaskID}] {
				attrs = append(attrs, "color=red", "penwidth=2")
			}
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\"", dotEscape(from), dotEscape(ts.TaskID))
			if len(attrs) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(attrs, ", "))
			}
			b.WriteString(";\n")
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// edgeLabel is empty for a plain finish-to-start edge.
func edgeLabel(d graph.Dependency) string {
	if d.Type == graph.FS && d.Lag == 0 {
		return ""
	}
	if d.Lag == 0 {
		return string(d.Type)
	}
	return fmt.Sprintf("%s%+d", d.Type, d.Lag)
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
