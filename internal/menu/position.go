package menu

// Margin is the gap, in cells, kept between a clamped menu and the viewport edge
const Margin = 1

// Point is a cell position, zero-based from the top-left corner
type Point struct {
	X, Y int
}

// Size is a cell extent
type Size struct {
	Width, Height int
}

// Clamp moves a box of size opened at pos so it stays inside viewport. An
// overflowing axis is pulled back to end Margin cells before the edge; no
// coordinate goes below zero.
func Clamp(pos Point, size Size, viewport Size) Point {
	out := pos
	if out.X+size.Width > viewport.Width {
		out.X = viewport.Width - size.Width - Margin
	}
	if out.Y+size.Height > viewport.Height {
		out.Y = viewport.Height - size.Height - Margin
	}
	if out.X < 0 {
		out.X = 0
	}
	if out.Y < 0 {
		out.Y = 0
	}
	return out
}
