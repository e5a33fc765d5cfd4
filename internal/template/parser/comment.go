package parser

import (
	"strings"
)

// LeadingComment returns the text of the comment block at the top of a
// template, one line per comment line with the '#' and surrounding spaces
// removed. The block ends at the first line that is not a comment.
func LeadingComment(data []byte) string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			break
		}
		lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "#")))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
