// Package display renders query results as text: a branch-style chain for
// a path between two nodes, and aligned tables for stats and duplicates.
// The branch characters and recursive-descent rendering follow the
// teacher's internal/display package, stripped of its emoji and
// agent-mode annotations — gprdeps has no such audience.
package display

import (
	"fmt"
	"strings"

	"github.com/briot/gprdeps/internal/encoding"
	"github.com/briot/gprdeps/internal/query"
)

// FormatPath renders the chain of nodes ShortestPath-style query actions
// return as a top-to-bottom branch, one entry per step. found=false
// renders a single "no path found" line instead. With showIDs, each step is
// annotated with its graph node's base63-encoded id, for cross-referencing
// against verbose/debug output that prints raw node ids.
func FormatPath(steps []query.PathStep, found bool, showIDs bool) string {
	if !found {
		return "No path found.\n"
	}
	if len(steps) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(stepLabel(steps[0], showIDs))
	sb.WriteString("\n")
	for i := 1; i < len(steps); i++ {
		indent := strings.Repeat("  ", i-1)
		sb.WriteString(indent)
		sb.WriteString("└─→ ")
		sb.WriteString(stepLabel(steps[i], showIDs))
		sb.WriteString("\n")
	}
	return sb.String()
}

func stepLabel(s query.PathStep, showIDs bool) string {
	label := ""
	switch {
	case s.Project != "":
		label = s.Project
	case s.Source != "":
		label = s.Source
	default:
		label = fmt.Sprintf("(%s)", s.Unit)
	}
	if showIDs {
		label = fmt.Sprintf("%s [%s]", label, encoding.Base63Encode(uint64(s.ID)))
	}
	return label
}

// FormatImportPath renders the plain source-file chain ImportPath returns
// the same way FormatPath does, without the project/unit step kinds.
func FormatImportPath(files []string, found bool) string {
	if !found {
		return "No path found.\n"
	}
	if len(files) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(files[0])
	sb.WriteString("\n")
	for i := 1; i < len(files); i++ {
		indent := strings.Repeat("  ", i-1)
		sb.WriteString(indent)
		sb.WriteString("└─→ ")
		sb.WriteString(files[i])
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatFileList renders a plain file list, one per line, in the order
// given (Imported returns it sorted, ImportPath in path order), or "(none)"
// when the list is empty.
func FormatFileList(files []string) string {
	if len(files) == 0 {
		return "(none)\n"
	}
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	return sb.String()
}
