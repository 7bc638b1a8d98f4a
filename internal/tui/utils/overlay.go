package utils

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Overlay draws fg over bg with its top-left corner at cell (x, y). Styled
// text on both sides is kept intact; cells of bg under fg are replaced.
func Overlay(bg, fg string, x, y int) string {
	if fg == "" {
		return bg
	}
	x, y = max(x, 0), max(y, 0)

	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	for len(bgLines) < y+len(fgLines) {
		bgLines = append(bgLines, "")
	}

	for i, line := range fgLines {
		row := bgLines[y+i]
		if w := ansi.StringWidth(row); w < x {
			row += strings.Repeat(" ", x-w)
		}
		left := ansi.Truncate(row, x, "")
		right := ansi.TruncateLeft(row, x+ansi.StringWidth(line), "")
		bgLines[y+i] = left + line + "\x1b[0m" + right
	}
	return strings.Join(bgLines, "\n")
}
