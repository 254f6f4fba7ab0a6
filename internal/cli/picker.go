package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// blueprintListModel is the bubbletea model for interactive blueprint
// selection when a command is run without a name argument.
type blueprintListModel struct {
	Names    []string
	Cursor   int
	Selected string
}

func newBlueprintListModel(names []string) blueprintListModel {
	return blueprintListModel{Names: names}
}

func (m blueprintListModel) Init() tea.Cmd {
	return nil
}

func (m blueprintListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Names[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m blueprintListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Blueprint"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, name := range m.Names {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := cursor + name
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))
	return b.String()
}

// pickBlueprint runs the interactive picker and returns the chosen
// name, or "" when the user quits without selecting.
func pickBlueprint(names []string) (string, error) {
	model, err := tea.NewProgram(newBlueprintListModel(names)).Run()
	if err != nil {
		return "", err
	}
	final, ok := model.(blueprintListModel)
	if !ok {
		return "", nil
	}
	return final.Selected, nil
}
