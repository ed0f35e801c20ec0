package display

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/briot/gprdeps/internal/query"
)

// FormatStats renders Stats as a two-column aligned table.
func FormatStats(s query.Stats) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 2, 1, ' ', 0)
	fmt.Fprintf(tw, "Scenarios:\t%d\n", s.DistinctScenarios)
	fmt.Fprintf(tw, "Graph nodes:\t%d\n", s.GraphNodes)
	fmt.Fprintf(tw, "  Projects:\t%d\n", s.Projects)
	fmt.Fprintf(tw, "  Units:\t%d\n", s.Units)
	fmt.Fprintf(tw, "  Source files:\t%d\n", s.SourceFiles)
	fmt.Fprintf(tw, "Graph edges:\t%d\n", s.GraphEdges)
	tw.Flush()
	return sb.String()
}

// FormatDuplicates renders one row per Duplicate: basename and the two
// projects that each carry their own copy of it.
func FormatDuplicates(dups []query.Duplicate) string {
	if len(dups) == 0 {
		return "No duplicate file names found.\n"
	}
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 2, 1, ' ', 0)
	fmt.Fprintf(tw, "Name\tProject 1\tProject 2\n")
	for _, d := range dups {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.FirstProj, d.SecondProj)
	}
	tw.Flush()
	return sb.String()
}
