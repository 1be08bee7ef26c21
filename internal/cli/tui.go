package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/constellar/pkg/tools"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorViolet)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ToolListModel - Interactive tool browser
// =============================================================================

// ToolListModel is the bubbletea model for browsing the tool registry.
// The highlighted tool's parameters are shown below the list.
type ToolListModel struct {
	Tools    []tools.Tool
	Cursor   int
	Selected *tools.Tool
}

// NewToolListModel creates a new tool list model.
func NewToolListModel(ts []tools.Tool) ToolListModel {
	return ToolListModel{Tools: ts}
}

func (m ToolListModel) Init() tea.Cmd {
	return nil
}

func (m ToolListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Tools)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Tools) > 0 {
				t := m.Tools[m.Cursor]
				m.Selected = &t
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ToolListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Drawing Tools"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, t := range m.Tools {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-28s", cursor, t.Name)))
		b.WriteString(" ")
		b.WriteString(listDimStyle.Render(t.Description))
		b.WriteString("\n")
	}

	if len(m.Tools) > 0 {
		b.WriteString("\n")
		b.WriteString(paramTable(m.Tools[m.Cursor]))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Tables
// =============================================================================

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorViolet)
			}
			return lipgloss.NewStyle()
		})
}

// toolTable renders the tool catalogue.
func toolTable(ts []tools.Tool) string {
	t := newTable("Tool", "Required", "Description")
	for _, tool := range ts {
		var req []string
		for _, p := range tool.Params {
			if p.Required {
				req = append(req, p.Name)
			}
		}
		t.Row(tool.Name, strings.Join(req, ", "), tool.Description)
	}
	return t.Render()
}

// paramTable renders one tool's parameters.
func paramTable(tool tools.Tool) string {
	t := newTable("Parameter", "Type", "Default", "Notes")
	for _, p := range tool.Params {
		def := "-"
		switch {
		case p.Required:
			def = "required"
		case p.Default != nil:
			def = fmt.Sprint(p.Default)
		}
		t.Row(p.Name, p.Type, def, p.Description)
	}
	t.Row("seed", "integer", "-", "reproducible ids; enables caching")
	return t.Render()
}

// exampleArgs renders a JSON argument skeleton with the required parameters.
func exampleArgs(tool tools.Tool) string {
	var parts []string
	for _, p := range tool.Params {
		if !p.Required {
			continue
		}
		var v string
		switch p.Type {
		case "number":
			v = "0"
		case "array":
			v = "[]"
		default:
			v = `""`
		}
		parts = append(parts, fmt.Sprintf("%q: %s", p.Name, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
