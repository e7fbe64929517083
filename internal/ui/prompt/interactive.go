// File: internal/ui/prompt/interactive.go
package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true)
	promptHintStyle  = lipgloss.NewStyle().Faint(true)
	promptMatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// InteractivePrompter confirms a destructive action with an inline text input.
// The user must type the expected value exactly; Esc or Ctrl+C declines.
type InteractivePrompter struct{}

func NewInteractivePrompter() *InteractivePrompter {
	return &InteractivePrompter{}
}

func (p *InteractivePrompter) Confirm(message string, expectedValue string) (bool, error) {
	if expectedValue == "" {
		return false, fmt.Errorf("expected confirmation value cannot be empty")
	}

	model := newConfirmModel(message, expectedValue)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model type %T", final)
	}
	return m.confirmed, nil
}

type confirmModel struct {
	message   string
	expected  string
	input     textinput.Model
	confirmed bool
	done      bool
}

func newConfirmModel(message, expected string) confirmModel {
	ti := textinput.New()
	ti.Placeholder = expected
	ti.CharLimit = len(expected) + 16
	ti.Focus()

	return confirmModel{
		message:  message,
		expected: expected,
		input:    ti,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.confirmed = strings.TrimSpace(m.input.Value()) == m.expected
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(m.message))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("To confirm, type the name %s and press Enter. Esc cancels.\n", promptMatchStyle.Render(fmt.Sprintf("'%s'", m.expected))))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(promptHintStyle.Render("(enter to confirm, esc to cancel)"))
	b.WriteString("\n")
	return b.String()
}
