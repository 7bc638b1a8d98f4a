package utils

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mediamingle/mingle/internal/userdata"
	"github.com/mediamingle/mingle/internal/tui/styles"
)

// TruncateToLines wraps text to maxWidth and keeps at most maxLines, ending
// the last kept line with "..." when something was cut
func TruncateToLines(text string, maxLines int, maxWidth int) string {
	lines := WrapText(text, maxWidth)
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	if maxLines <= 0 {
		return ""
	}

	kept := lines[:maxLines]
	last := kept[maxLines-1]
	if runewidth.StringWidth(last) > maxWidth-3 {
		last = TruncateWithWidth(last, maxWidth)
	} else {
		last += "..."
	}
	kept[maxLines-1] = last
	return strings.Join(kept, "\n")
}

// WrapText wraps text at word boundaries to fit within maxWidth
func WrapText(text string, maxWidth int) []string {
	words := strings.Fields(text)

	var lines []string
	var current strings.Builder
	width := 0

	for _, word := range words {
		w := runewidth.StringWidth(word)
		switch {
		case width == 0:
			current.WriteString(word)
			width = w
		case width+1+w <= maxWidth:
			current.WriteString(" ")
			current.WriteString(word)
			width += 1 + w
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			width = w
		}
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// TruncateWithWidth cuts text to maxWidth cells, accounting for wide runes,
// and marks the cut with "..."
func TruncateWithWidth(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(text, maxWidth, "")
	}
	return runewidth.Truncate(text, maxWidth, "...")
}

// Pad fills text with spaces to exactly width cells, truncating if needed
func Pad(text string, width int) string {
	return runewidth.FillRight(TruncateWithWidth(text, width), width)
}

// Stars draws a 0-10 rating as five glyphs: full, half or empty per star.
// 5.0 draws two full stars and a half star.
func Stars(rating float64) string {
	var b strings.Builder
	for _, fill := range userdata.StarFill(rating) {
		switch {
		case fill >= 100:
			b.WriteString(styles.StarFullStyle.Render("★"))
		case fill >= 50:
			b.WriteString(styles.StarFullStyle.Render("⯪"))
		case fill > 0:
			b.WriteString(styles.StarEmptyStyle.Render("⯪"))
		default:
			b.WriteString(styles.StarEmptyStyle.Render("☆"))
		}
	}
	return b.String()
}

// Score formats an optional rating for a card
func Score(rating *float64) string {
	if rating == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *rating)
}
