package report

import (
	"strings"

	"daylog-bot/domain"
)

const (
	branchMid  = "├"
	branchLast = "└"
	// Continuation lines of a multi-line description align under the branch
	// column, past the glyph and the time stamp.
	continuationIndent = " |                     "
)

// Render formats a day's entries as a tree-style report. The last entry uses
// the terminal branch glyph, every other entry the continuation glyph.
// Render is pure: the same day and entries always produce the same string,
// and entries are never modified.
func Render(day string, entries []domain.TaskEntry) string {
	if len(entries) == 0 {
		return "Date: " + day + "\n\nNo tasks recorded."
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "🗓️ Date : "+day+"\n |")
	for i, entry := range entries {
		prefix := branchMid
		if i == len(entries)-1 {
			prefix = branchLast
		}
		parts := strings.Split(entry.Description, "\n")
		lines = append(lines, prefix+entry.DisplayTime+"─  "+parts[0])
		for _, extra := range parts[1:] {
			lines = append(lines, continuationIndent+extra)
		}
	}
	return strings.Join(lines, "\n")
}
