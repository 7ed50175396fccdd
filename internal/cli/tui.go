package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/depskew/pkg/skew"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listInvalidStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// MismatchListModel - Interactive mismatch browser
// =============================================================================

// MismatchListModel is the bubbletea model for `check --interactive`. The
// list of mismatches is on top, the divergent copies of the selected one
// below it.
type MismatchListModel struct {
	Mismatches []skew.Mismatch
	Order      skew.Order
	Cursor     int
	Height     int
	Offset     int
}

// NewMismatchListModel creates a new mismatch list model.
func NewMismatchListModel(mismatches []skew.Mismatch, order skew.Order) MismatchListModel {
	return MismatchListModel{
		Mismatches: mismatches,
		Order:      order,
		Height:     10,
	}
}

func (m MismatchListModel) Init() tea.Cmd {
	return nil
}

func (m MismatchListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Mismatches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m MismatchListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%d version mismatch(es)", len(m.Mismatches))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Mismatches) == 0 {
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Mismatches))
	for i := m.Offset; i < end; i++ {
		mm := m.Mismatches[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		status := ""
		if mm.Invalid() {
			status = listInvalidStyle.Render(" invalid")
		}
		line := fmt.Sprintf("%s%-30s %s", cursor, mm.Name, mm.Root.Version)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(status + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detail(m.Mismatches[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Mismatches))))

	return b.String()
}

// detail renders the divergent copies of mm as a table.
func (m MismatchListModel) detail(mm skew.Mismatch) string {
	if mm.Invalid() && len(mm.Divergent) == 0 {
		return listInvalidStyle.Render("  " + mm.Root.Invalid)
	}

	rows := [][]string{}
	for _, o := range skew.SortVersions(mm.Divergent, m.Order) {
		rows = append(rows, []string{o.Version, skew.Compare(mm.Root.Version, o.Version).String(), o.PathString(" > ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Version", "vs root", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorRed)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	return t.Render()
}
