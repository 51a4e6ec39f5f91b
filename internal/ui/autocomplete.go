package ui

import (
	"database/sql"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/liftlog/internal/db"
	"github.com/ramanasai/liftlog/internal/model"
)

// AutocompleteModel is a text input that suggests catalog exercises as
// the user types.
type AutocompleteModel struct {
	input          textinput.Model
	suggestions    []model.Exercise
	showing        bool
	selected       int
	chosen         *model.Exercise
	db             *sql.DB
	style          lipgloss.Style
	maxSuggestions int
}

// AutocompleteMsg carries fresh suggestions for the query they were
// fetched for.
type AutocompleteMsg struct {
	Query       string
	Suggestions []model.Exercise
}

// NewAutocomplete creates an exercise picker input.
func NewAutocomplete(dbh *sql.DB, maxSuggestions int) AutocompleteModel {
	input := textinput.New()
	input.Placeholder = "Exercise name..."
	input.CharLimit = 80

	return AutocompleteModel{
		input:          input,
		db:             dbh,
		maxSuggestions: maxSuggestions,
		style:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Update handles the autocomplete logic
func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected + 1) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyShiftTab, tea.KeyUp:
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyEnter:
			if m.showing && len(m.suggestions) > 0 {
				ex := m.suggestions[m.selected]
				m.chosen = &ex
				m.input.SetValue(ex.Name)
				m.input.CursorEnd()
				m.showing = false
				m.selected = 0
				return m, nil
			}
		case tea.KeyEscape:
			if m.showing {
				m.showing = false
				m.selected = 0
				return m, nil
			}
		}

		old := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != old {
			m.chosen = nil
			return m, m.fetchSuggestions()
		}
		return m, cmd

	case AutocompleteMsg:
		// drop results for a query the user has already typed past
		if msg.Query != m.input.Value() {
			return m, nil
		}
		m.suggestions = msg.Suggestions
		m.showing = len(m.suggestions) > 0 && m.input.Value() != ""
		m.selected = 0
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m AutocompleteModel) fetchSuggestions() tea.Cmd {
	query := m.input.Value()
	dbh := m.db
	limit := m.maxSuggestions
	return func() tea.Msg {
		if dbh == nil || strings.TrimSpace(query) == "" {
			return AutocompleteMsg{Query: query}
		}
		found, err := db.SearchExercises(dbh, query, limit)
		if err != nil {
			return AutocompleteMsg{Query: query}
		}
		return AutocompleteMsg{Query: query, Suggestions: found}
	}
}

// View renders the input and its suggestions.
func (m AutocompleteModel) View() string {
	var content strings.Builder
	content.WriteString(m.input.View())

	if m.showing {
		content.WriteString("\n")
		for i, ex := range m.suggestions {
			if i >= m.maxSuggestions {
				break
			}
			if i == m.selected {
				content.WriteString(m.style.Foreground(lipgloss.Color("12")).Render("▶ " + ex.Name))
			} else {
				content.WriteString(m.style.Render("  " + ex.Name))
			}
			content.WriteString("\n")
		}
	}
	return content.String()
}

// Chosen returns the exercise picked from the suggestions, if any.
func (m AutocompleteModel) Chosen() (model.Exercise, bool) {
	if m.chosen == nil {
		return model.Exercise{}, false
	}
	return *m.chosen, true
}

func (m AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) Reset() {
	m.input.SetValue("")
	m.suggestions = nil
	m.chosen = nil
	m.showing = false
	m.selected = 0
}

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.showing = false
	m.selected = 0
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.showing = false
}

func (m AutocompleteModel) Showing() bool { return m.showing }
