package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold      = color.New(color.Bold).SprintFunc()
	Dim       = color.New(color.Faint).SprintFunc()
	Cyan      = color.New(color.FgCyan).SprintFunc()
	Green     = color.New(color.FgGreen).SprintFunc()
	Red       = color.New(color.FgRed).SprintFunc()
	Yellow    = color.New(color.FgYellow).SprintFunc()
	BoldCyan  = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldRed   = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldWhite = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// SetColor turns coloured output on or off globally.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Marker returns the critical task marker, or a blank of the same width.
func Marker(critical bool) string {
	if critical {
		return Red("*")
	}
	return " "
}

// Slack renders a slack value: red when zero, yellow when negative.
func Slack(width, slack int) string {
	s := fmt.Sprintf("%*d", width, slack)
	switch {
	case slack == 0:
		return Red(s)
	case slack < 0:
		return Yellow(s)
	default:
		return s
	}
}

// PrintLogo renders the coloured netdiagram banner.
func PrintLogo(w io.Writer) {
	node := color.New(color.FgCyan)
	edge := color.New(color.FgCyan, color.Faint)
	crit := color.New(color.Bold, color.FgRed)
	brand := color.New(color.Bold, color.FgWhite)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	node.Fprint(w, "   [A]")
	crit.Fprint(w, "==>")
	node.Fprint(w, "[B]")
	crit.Fprint(w, "==>")
	node.Fprintln(w, "[D]")
	edge.Fprintln(w, "      \\         /")
	node.Fprint(w, "       [C]")
	edge.Fprintln(w, "---'")
	brand.Fprintln(w, "   N E T D I A G R A M")
	tag.Fprintln(w, "   critical path scheduling")
	fmt.Fprintln(w)
}
