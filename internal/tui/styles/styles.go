package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/content"
)

// Oxocarbon color scheme - IBM Carbon inspired
// Following base16 oxocarbon-dark palette
var (
	// Base colors
	OxocarbonBlack  = lipgloss.Color("#161616") // Darkest background
	OxocarbonBase00 = lipgloss.Color("#262626") // UI elements (lighter than bg)
	OxocarbonBase01 = lipgloss.Color("#393939") // Borders, secondary UI
	OxocarbonBase02 = lipgloss.Color("#525252") // Disabled/muted elements
	OxocarbonBase03 = lipgloss.Color("#767676") // Disabled/muted elements
	OxocarbonBase04 = lipgloss.Color("#dde1e6") // Secondary foreground
	OxocarbonBase05 = lipgloss.Color("#f2f4f8") // Primary foreground
	OxocarbonWhite  = lipgloss.Color("#ffffff")

	// Accent colors
	OxocarbonTeal   = lipgloss.Color("#3ddbd9")
	OxocarbonBlue   = lipgloss.Color("#78a9ff")
	OxocarbonPink   = lipgloss.Color("#ee5396")
	OxocarbonRed    = lipgloss.Color("#ff5252")
	OxocarbonCyan   = lipgloss.Color("#33b1ff")
	OxocarbonGreen  = lipgloss.Color("#42be65")
	OxocarbonPurple = lipgloss.Color("#be95ff") // main accent
	OxocarbonMauve  = lipgloss.Color("#d1aaff")
	OxocarbonAmber  = lipgloss.Color("#fbbf24") // stars
)

var (
	// Title style
	TitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonMauve).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			Italic(true)

	MetadataStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04)

	MutedStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03)

	URLStyle = lipgloss.NewStyle().
			Foreground(OxocarbonCyan).
			Italic(true)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(OxocarbonAmber).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(OxocarbonPurple).
			Bold(true).
			Underline(true).
			MarginBottom(1)

	SynopsisStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(OxocarbonRed).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(OxocarbonGreen)

	// List rows
	NormalItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(OxocarbonBase05)

	SelectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(OxocarbonPurple).
				Bold(true)

	// Tabs across the top act as the sidebar
	TabStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	// Mood and genre chips
	ChipStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Background(OxocarbonBase01).
			Padding(0, 1).
			MarginRight(1)

	ChipSelectedStyle = lipgloss.NewStyle().
				Foreground(OxocarbonBlack).
				Background(OxocarbonPurple).
				Padding(0, 1).
				MarginRight(1).
				Bold(true)

	// Cards in the main grid
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(OxocarbonBase01).
			Padding(0, 1)

	CardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(OxocarbonPurple).
				Padding(0, 1)

	SkeletonStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase01)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Bold(true)

	// Featured banner above the grid
	FeaturedStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(OxocarbonMauve).
			Padding(0, 2)

	FeaturedLabelStyle = lipgloss.NewStyle().
				Foreground(OxocarbonBlack).
				Background(OxocarbonMauve).
				Padding(0, 1).
				Bold(true)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(OxocarbonWhite).
				Background(OxocarbonRed).
				Padding(0, 1)

	InfoBannerStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBlack).
			Background(OxocarbonTeal).
			Padding(0, 1)

	// Footer style for status messages
	FooterStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Background(OxocarbonBase01).
			Padding(0, 1)

	// Popup style
	PopupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(OxocarbonPurple).
			Padding(1, 2).
			Background(OxocarbonBase00).
			Foreground(OxocarbonBase05)

	DangerPopupStyle = PopupStyle.
				BorderForeground(OxocarbonRed)

	StarFullStyle  = lipgloss.NewStyle().Foreground(OxocarbonAmber)
	StarEmptyStyle = lipgloss.NewStyle().Foreground(OxocarbonBase02)
)

// KindColor is the accent for a media kind's tab and badges
func KindColor(kind content.MediaKind) lipgloss.Color {
	switch kind {
	case content.KindMovie:
		return OxocarbonRed
	case content.KindTV:
		return OxocarbonGreen
	case content.KindAnime:
		return OxocarbonAmber
	default:
		return OxocarbonBase04
	}
}

// KindBadge renders a short colored kind label
func KindBadge(kind content.MediaKind) string {
	label := map[content.MediaKind]string{
		content.KindMovie: "Movie",
		content.KindTV:    "TV",
		content.KindAnime: "Anime",
	}[kind]
	if label == "" {
		label = string(kind)
	}
	return lipgloss.NewStyle().Foreground(KindColor(kind)).Bold(true).Render(label)
}
