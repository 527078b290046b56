package textmeasure

import (
	"strings"
	"unicode/utf8"
)

// Fixed gives every rune the same advance and every line the same height, scaled by
// font size relative to 10. Layout tests use it to reason about exact coordinates.
type Fixed struct {
	RuneWidth  int
	LineHeight int
}

func (m Fixed) Measure(f Font, s string) (width, height int) {
	lines := strings.Split(s, "\n")
	w := 0
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", TAB_SIZE))
		n := utf8.RuneCountInString(line)
		if n > w {
			w = n
		}
	}
	return w * m.RuneWidth * f.Size / 10, len(lines) * m.LineHeight * f.Size / 10
}
