package gcode

import (
	"strconv"
	"strings"
)

// Stats summarizes an editor buffer for the activity pane and headless
// reports. It looks at line shapes only; full validation is the
// server's job.
type Stats struct {
	Lines    int
	Commands int
	Moves    int
	Comments int
	Blank    int
}

var moveWords = map[string]bool{
	"G0": true, "G00": true,
	"G1": true, "G01": true,
	"G2": true, "G02": true,
	"G3": true, "G03": true,
}

func Analyze(text string) Stats {
	stats := Stats{Lines: LineCount(text)}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			stats.Blank++
		case strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "("):
			stats.Comments++
		default:
			stats.Commands++
			word := strings.ToUpper(strings.Fields(trimmed)[0])
			if idx := strings.IndexByte(word, ';'); idx > 0 {
				word = word[:idx]
			}
			if moveWords[word] {
				stats.Moves++
			}
		}
	}

	return stats
}

func (s Stats) Summary() string {
	var b strings.Builder
	b.WriteString(plural(s.Lines, "line"))
	if s.Commands > 0 {
		b.WriteString(", " + plural(s.Commands, "command"))
	}
	if s.Moves > 0 {
		b.WriteString(", " + plural(s.Moves, "move"))
	}
	if s.Comments > 0 {
		b.WriteString(", " + plural(s.Comments, "comment"))
	}
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
