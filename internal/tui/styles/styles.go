package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PandaPink  = lipgloss.Color("#E0457B")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Yellow     = lipgloss.Color("#F59E0B")
)

// Category colors follow the site's category badges
var categoryColors = map[string]lipgloss.Color{
	"Doujinshi":  lipgloss.Color("#F44336"),
	"Manga":      lipgloss.Color("#FF9800"),
	"Artist CG":  lipgloss.Color("#FBC02D"),
	"Game CG":    lipgloss.Color("#4CAF50"),
	"Western":    lipgloss.Color("#8BC34A"),
	"Non-H":      lipgloss.Color("#2196F3"),
	"Image Set":  lipgloss.Color("#3F51B5"),
	"Cosplay":    lipgloss.Color("#9C27B0"),
	"Asian Porn": lipgloss.Color("#9575CD"),
	"Misc":       lipgloss.Color("#F06292"),
}

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PandaPink)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(PandaPink)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Yellow)
)

// Tab styles for the list switcher
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(PandaPink).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Cookie validity marks
var (
	ValidMark   = SuccessStyle.Render("✓")
	InvalidMark = ErrorStyle.Render("✗")
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	DisabledItemStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Strikethrough(true).
				Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PandaPink).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(PandaPink).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(PandaPink)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(PandaPink).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(PandaPink).
				Bold(true)
)

// CategoryBadge renders a category label in its site color
func CategoryBadge(name string) string {
	color, ok := categoryColors[name]
	if !ok {
		color = DimGray
	}
	return lipgloss.NewStyle().
		Foreground(White).
		Background(color).
		Width(11).
		Align(lipgloss.Center).
		Render(name)
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Highlight renders the runes of s that start at the given byte offsets with
// the match style
func Highlight(s string, indexes []int) string {
	if len(indexes) == 0 {
		return s
	}
	marked := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		marked[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if marked[i] {
			b.WriteString(MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RenderRating renders a 0-5 rating as stars in half steps
func RenderRating(rating float32) string {
	full := int(rating)
	half := rating-float32(full) >= 0.5
	var b strings.Builder
	for i := 0; i < 5; i++ {
		switch {
		case i < full:
			b.WriteString("★")
		case i == full && half:
			b.WriteString("⯪")
		default:
			b.WriteString("☆")
		}
	}
	return WarningStyle.Render(b.String())
}
