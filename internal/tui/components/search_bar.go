package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/panda/internal/search"
	"github.com/mmcdole/panda/internal/tui/styles"
)

const maxSuggestions = 5

// SearchBar is the keyword prompt with history suggestions
type SearchBar struct {
	visible     bool
	input       textinput.Model
	history     []string // least recently used first
	suggestions []string
	cursor      int // -1 while no suggestion is selected
	width       int
}

// NewSearchBar creates a hidden search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search galleries..."
	ti.CharLimit = 200
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti, cursor: -1}
}

// Show displays the bar prefilled with keyword
func (s *SearchBar) Show(keyword string, history []string) {
	s.visible = true
	s.history = history
	s.input.SetValue(keyword)
	s.input.CursorEnd()
	s.input.Focus()
	s.refresh()
}

// Hide dismisses the bar
func (s *SearchBar) Hide() {
	s.visible = false
	s.input.Blur()
}

// IsVisible returns whether the bar is shown
func (s SearchBar) IsVisible() bool {
	return s.visible
}

// Value returns the selected suggestion, or the typed text
func (s SearchBar) Value() string {
	if s.cursor >= 0 && s.cursor < len(s.suggestions) {
		return s.suggestions[s.cursor]
	}
	return s.input.Value()
}

// Suggestions returns the history keywords currently offered
func (s SearchBar) Suggestions() []string {
	return s.suggestions
}

// SetWidth sets the rendered width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-4, 10)
}

func (s *SearchBar) refresh() {
	// Most recent first for display
	recent := make([]string, len(s.history))
	for i, kw := range s.history {
		recent[len(s.history)-1-i] = kw
	}
	s.suggestions = search.Suggest(s.input.Value(), recent)
	if len(s.suggestions) > maxSuggestions {
		s.suggestions = s.suggestions[:maxSuggestions]
	}
	s.cursor = -1
}

// Update handles input events, returns (bar, cmd, submitted)
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	if !s.visible {
		return s, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return s, nil, true
		case "esc":
			s.Hide()
			return s, nil, false
		case "down", "ctrl+n":
			if s.cursor < len(s.suggestions)-1 {
				s.cursor++
			}
			return s, nil, false
		case "up", "ctrl+p":
			if s.cursor >= 0 {
				s.cursor--
			}
			return s, nil, false
		case "tab":
			if v := s.Value(); v != "" {
				s.input.SetValue(v)
				s.input.CursorEnd()
				s.refresh()
			}
			return s, nil, false
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != before {
		s.refresh()
	}
	return s, cmd, false
}

// View renders the bar and its suggestions
func (s SearchBar) View() string {
	if !s.visible {
		return ""
	}

	lines := []string{s.input.View()}
	for i, kw := range s.suggestions {
		style := styles.NormalItemStyle
		if i == s.cursor {
			style = styles.SelectedItemStyle
		}
		lines = append(lines, style.Render("↺ "+kw))
	}

	return styles.ActiveBorder.
		Width(max(s.width-2, 20)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
