package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/netdiagram/internal/cpm"
	"github.com/joshharrison/netdiagram/internal/ui"
)

// DefaultGanttWidth is the widest chart, in columns, the gantt view draws.
const DefaultGanttWidth = 60

// Gantt draws one bar per task, scaled so the project end fits in Width
// columns. Short projects get one column per time unit.
//
// Critical work is drawn with '#', other work with '=', and the slack that
// follows a task with '.'. Zero-length tasks show as '|'.
type Gantt struct {
	Width int
}

func (g Gantt) Render(w io.Writer, r *cpm.Result) error {
	width := g.Width
	if width <= 0 {
		width = DefaultGanttWidth
	}
	if r.ProjectEnd < width {
		width = r.ProjectEnd
	}
	col := func(t int) int {
		if r.ProjectEnd <= 0 {
			return 0
		}
		return max(0, min(width, t*width/r.ProjectEnd))
	}

	for _, ts := range r.Schedules() {
		start, stop, late := col(ts.ES), col(ts.EF), col(ts.LF)

		var bar strings.Builder
		bar.WriteString(strings.Repeat(" ", start))
		used := start
		switch {
		case ts.Duration == 0:
			bar.WriteString("|")
			used++
		case ts.IsCritical:
			n := max(1, stop-start)
			bar.WriteString(ui.Red(strings.Repeat("#", n)))
			used += n
		default:
			n := max(1, stop-start)
			bar.WriteString(strings.Repeat("=", n))
			used += n
		}
		if late > used {
			bar.WriteString(ui.Dim(strings.Repeat(".", late-used)))
			used = late
		}
		if used <= width {
			bar.WriteString(strings.Repeat(" ", width+1-used))
		}

		if _, err := fmt.Fprintf(w, "%s %5s |%s|\n", ui.Marker(ts.IsCritical), ts.TaskID, bar.String()); err != nil {
			return err
		}
	}

	if width == 0 {
		_, err := fmt.Fprintf(w, "%8s 0\n", "")
		return err
	}
	_, err := fmt.Fprintf(w, "%8s 0%*d\n", "", width, r.ProjectEnd)
	return err
}
