package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/depskew/pkg/skew"
)

// Table renders one row per divergent occurrence. An invalid root without
// divergent copies gets a single row with its validation message.
type Table struct {
	opts Options
}

// Report writes the table, or the success line when there is nothing to show.
func (t *Table) Report(w io.Writer, mismatches []skew.Mismatch) error {
	r := renderer(w, t.opts.NoColor)
	if len(mismatches) == 0 {
		_, err := fmt.Fprintln(w, r.NewStyle().Foreground(colorGreen).Render(SuccessMessage))
		return err
	}

	var rows [][]string
	var invalid []bool
	for _, m := range mismatches {
		root := m.Root.Version
		if m.Invalid() {
			root += " (invalid)"
		}
		if len(m.Divergent) == 0 {
			rows = append(rows, []string{m.Name, root, "-", m.Root.Invalid})
			invalid = append(invalid, m.Invalid())
			continue
		}
		for _, o := range skew.SortVersions(m.Divergent, t.opts.Order) {
			version := o.Version + " " + marker(skew.Compare(m.Root.Version, o.Version))
			rows = append(rows, []string{m.Name, root, version, o.PathString(" > ")})
			invalid = append(invalid, m.Invalid())
		}
	}

	headerStyle := r.NewStyle().Foreground(colorGray).Bold(true)
	cell := r.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(colorDim)).
		Headers("Package", "Root", "Version", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 1:
				if row < len(invalid) && invalid[row] {
					return cell.Foreground(colorRed)
				}
				return cell.Foreground(colorGreen)
			case 2:
				return cell.Foreground(colorRed)
			case 3:
				return cell.Foreground(colorYellow)
			}
			return cell
		})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

// Ensure Table implements Reporter.
var _ Reporter = (*Table)(nil)
