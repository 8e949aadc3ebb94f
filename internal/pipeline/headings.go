package pipeline

import "strings"

// HeadingLevel reports the number of leading '#' characters on line. Any
// line starting with '#' counts, with or without a following space, so
// "##Section" is level 2. Indented lines are not headings.
func HeadingLevel(line string) (int, bool) {
	level := len(line) - len(strings.TrimLeft(line, "#"))
	return level, level > 0
}
