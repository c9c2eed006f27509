// Package app holds the root Bubble Tea model. It owns the program
// lifecycle and delegates everything else to the grid viewer.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/gridline/internal/ui/gridview"
)

// Model is the top-level program model.
type Model struct {
	grid gridview.Model
}

// New wraps a grid viewer as the program root.
func New(grid gridview.Model) Model {
	return Model{grid: grid}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.grid.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	return m.grid.View()
}
