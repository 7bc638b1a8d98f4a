package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mediamingle/mingle/internal/tui/styles"
)

// Dispatcher owns the one open menu. The zero value is not usable; call New.
type Dispatcher struct {
	builder Builder

	open   bool
	spec   Spec
	pos    Point
	size   Size
	cursor int
	view   string
}

// New creates a closed dispatcher
func New(b Builder) *Dispatcher {
	return &Dispatcher{builder: b}
}

// SetBuilder swaps the builder used by later opens
func (d *Dispatcher) SetBuilder(b Builder) {
	d.builder = b
}

// Open builds a fresh menu for t at the pointer and clamps it to viewport.
// Any menu already open is replaced.
func (d *Dispatcher) Open(at Point, t Target, viewport Size) Spec {
	d.Close()

	d.spec = d.builder.Build(t)
	if len(d.spec.Entries) == 0 {
		return d.spec
	}

	d.open = true
	d.cursor = d.next(-1, 1)

	// position depends on the rendered size, so render first
	d.view = d.render()
	d.size = Size{Width: lipgloss.Width(d.view), Height: lipgloss.Height(d.view)}
	d.pos = Clamp(at, d.size, viewport)
	return d.spec
}

// Close dismisses the menu; closing a closed menu does nothing
func (d *Dispatcher) Close() {
	d.open = false
	d.spec = Spec{}
	d.cursor = -1
	d.view = ""
}

// IsOpen reports whether a menu is showing
func (d *Dispatcher) IsOpen() bool { return d.open }

// Spec returns the open menu
func (d *Dispatcher) Spec() Spec { return d.spec }

// Position returns the clamped top-left corner of the open menu
func (d *Dispatcher) Position() Point { return d.pos }

// Size returns the rendered size of the open menu
func (d *Dispatcher) Size() Size { return d.size }

// Cursor returns the highlighted entry index, or -1
func (d *Dispatcher) Cursor() int { return d.cursor }

// Invoke runs entry i against the target captured at open time and closes
// the menu without waiting for the returned command. Dividers and disabled
// entries are ignored and leave the menu open.
func (d *Dispatcher) Invoke(i int) tea.Cmd {
	if !d.open || i < 0 || i >= len(d.spec.Entries) {
		return nil
	}
	entry := d.spec.Entries[i]
	if !entry.Selectable() {
		return nil
	}

	target := d.spec.Target
	d.Close()
	return entry.Handler(target)
}

// HandleKey consumes navigation keys while open. It reports whether the key
// was used.
func (d *Dispatcher) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !d.open {
		return nil, false
	}

	switch msg.String() {
	case "esc", "q":
		d.Close()
	case "up", "k", "shift+tab":
		d.move(-1)
	case "down", "j", "tab":
		d.move(1)
	case "enter", " ":
		return d.Invoke(d.cursor), true
	default:
		// the menu is modal for the keyboard
	}
	return nil, true
}

// HandleMouse applies the dismissal rules: a press outside the menu, any
// wheel event and any right-button press close it; a left click on an entry
// invokes it. It reports whether the event was consumed, which is false for
// a right press so the caller can open a new menu at that spot.
func (d *Dispatcher) HandleMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	if !d.open {
		return nil, false
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown,
		tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		d.Close()
		return nil, false
	case tea.MouseButtonRight:
		if msg.Action == tea.MouseActionPress {
			d.Close()
		}
		return nil, false
	}

	if msg.Action == tea.MouseActionMotion {
		if i, ok := d.entryAt(msg.X, msg.Y); ok && d.spec.Entries[i].Selectable() {
			d.cursor = i
			d.view = d.render()
		}
		return nil, true
	}
	if msg.Action != tea.MouseActionPress {
		return nil, d.contains(msg.X, msg.Y)
	}

	if !d.contains(msg.X, msg.Y) {
		d.Close()
		return nil, false
	}
	if i, ok := d.entryAt(msg.X, msg.Y); ok {
		return d.Invoke(i), true
	}
	return nil, true
}

// View renders the open menu; callers place it at Position
func (d *Dispatcher) View() string {
	if !d.open {
		return ""
	}
	return d.view
}

func (d *Dispatcher) contains(x, y int) bool {
	return x >= d.pos.X && x < d.pos.X+d.size.Width &&
		y >= d.pos.Y && y < d.pos.Y+d.size.Height
}

// entryAt maps a cell to an entry row; the box has a one-cell border
func (d *Dispatcher) entryAt(x, y int) (int, bool) {
	if !d.contains(x, y) {
		return 0, false
	}
	row := y - d.pos.Y - 1
	if row < 0 || row >= len(d.spec.Entries) {
		return 0, false
	}
	return row, true
}

func (d *Dispatcher) move(dir int) {
	if i := d.next(d.cursor, dir); i >= 0 {
		d.cursor = i
		d.view = d.render()
	}
}

// next finds the next selectable entry from i in direction dir, wrapping
func (d *Dispatcher) next(i, dir int) int {
	n := len(d.spec.Entries)
	for step := 1; step <= n; step++ {
		j := ((i+dir*step)%n + n) % n
		if d.spec.Entries[j].Selectable() {
			return j
		}
	}
	return -1
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OxocarbonBase02).
			Background(styles.OxocarbonBase00)

	entryStyle    = lipgloss.NewStyle().Foreground(styles.OxocarbonBase05)
	cursorStyle   = lipgloss.NewStyle().Foreground(styles.OxocarbonBlack).Background(styles.OxocarbonPurple).Bold(true)
	dangerStyle   = lipgloss.NewStyle().Foreground(styles.OxocarbonRed)
	disabledStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonBase03)
	shortcutStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonBase03)
	dividerStyle  = lipgloss.NewStyle().Foreground(styles.OxocarbonBase01)
)

func (d *Dispatcher) render() string {
	labelWidth, shortcutWidth := 0, 0
	for _, e := range d.spec.Entries {
		labelWidth = max(labelWidth, runewidth.StringWidth(e.Label))
		shortcutWidth = max(shortcutWidth, runewidth.StringWidth(e.Shortcut))
	}
	width := labelWidth + 2
	if shortcutWidth > 0 {
		width += shortcutWidth + 3
	}

	lines := make([]string, len(d.spec.Entries))
	for i, e := range d.spec.Entries {
		if e.Divider {
			lines[i] = dividerStyle.Render(strings.Repeat("─", width))
			continue
		}

		label := runewidth.FillRight(e.Label, labelWidth)
		row := " " + label
		if shortcutWidth > 0 {
			row += "   " + runewidth.FillLeft(e.Shortcut, shortcutWidth)
		}
		row += " "

		switch {
		case i == d.cursor:
			lines[i] = cursorStyle.Render(row)
		case e.Disabled:
			lines[i] = disabledStyle.Render(row)
		case e.Danger:
			lines[i] = dangerStyle.Render(row)
		case e.Shortcut != "":
			lines[i] = entryStyle.Render(" "+label+"   ") +
				shortcutStyle.Render(runewidth.FillLeft(e.Shortcut, shortcutWidth)+" ")
		default:
			lines[i] = entryStyle.Render(row)
		}
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
