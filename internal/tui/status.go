// internal/tui/status.go
//
// Read-only artifact dashboard, shown with `formforge --status`. One row per
// pipeline step: its artifacts and whether the whole step is already
// satisfied on disk. Uses bubbletea's model/update/view cycle with a bubbles
// table for rendering.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/formforge/formforge/internal/artifact"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	frameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	presentLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("present")
	missingLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("missing")
)

// StepStatus is one dashboard row: a step and whether its full artifact set
// exists.
type StepStatus struct {
	Index     int
	Artifacts []string
	Present   bool
}

// BuildSteps derives the dashboard rows from the current filesystem state.
func BuildSteps(store *artifact.Store, dir string, mode artifact.Mode) ([]StepStatus, error) {
	var rows []StepStatus
	for _, step := range artifact.Steps(mode) {
		present := true
		for _, name := range step.Artifacts {
			ok, err := store.Present(dir, name)
			if err != nil {
				return nil, err
			}
			if !ok {
				present = false
				break
			}
		}
		rows = append(rows, StepStatus{Index: step.Index, Artifacts: step.Artifacts, Present: present})
	}
	return rows, nil
}

// Model is the bubbletea model for the status view.
type Model struct {
	subject string
	mode    artifact.Mode
	table   table.Model
}

// NewModel builds the status view for a subject.
func NewModel(subject string, mode artifact.Mode, steps []StepStatus) Model {
	columns := []table.Column{
		{Title: "Step", Width: 6},
		{Title: "Artifacts", Width: 36},
		{Title: "Status", Width: 10},
	}
	rows := make([]table.Row, 0, len(steps))
	for _, step := range steps {
		status := missingLabel
		if step.Present {
			status = presentLabel
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", step.Index),
			strings.Join(step.Artifacts, ", "),
			status,
		})
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)
	return Model{subject: subject, mode: mode, table: tbl}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. The view is read-only; only navigation and
// quit keys matter.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s — %s mode", m.subject, m.mode))
	return title + "\n" + frameStyle.Render(m.table.View()) + "\n" + helpStyle.Render("q to quit") + "\n"
}

// Show runs the dashboard until the user quits.
func Show(subject string, mode artifact.Mode, steps []StepStatus) error {
	p := tea.NewProgram(NewModel(subject, mode, steps))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: status view: %w", err)
	}
	return nil
}
