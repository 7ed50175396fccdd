package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/depskew/pkg/skew"
)

// SuccessMessage is printed by the text reporter when nothing is skewed.
const SuccessMessage = "All packages have consistent versions."

// Text lists each mismatch as a block:
//
//	lodash 4.17.21
//	 4.17.15 ↓ (eslint@8.0.0 > table@6.0.0)
type Text struct {
	opts Options
}

// Report writes the listing.
func (t *Text) Report(w io.Writer, mismatches []skew.Mismatch) error {
	r := renderer(w, t.opts.NoColor)
	var (
		rootStyle    = r.NewStyle().Foreground(colorGreen)
		invalidStyle = r.NewStyle().Foreground(colorRed)
		versionStyle = r.NewStyle().Foreground(colorRed)
		pathStyle    = r.NewStyle().Foreground(colorYellow)
		markerStyle  = r.NewStyle().Foreground(colorGray)
	)

	if len(mismatches) == 0 {
		_, err := fmt.Fprintln(w, rootStyle.Render(SuccessMessage))
		return err
	}

	var b strings.Builder
	for _, m := range mismatches {
		b.WriteString("\n")
		b.WriteString(m.Name + " " + rootStyle.Render(m.Root.Version))
		if m.Invalid() {
			b.WriteString(" " + invalidStyle.Render("(invalid)"))
		}
		b.WriteString("\n")
		if m.Invalid() {
			b.WriteString(" " + invalidStyle.Render(m.Root.Invalid) + "\n")
		}
		for _, o := range skew.SortVersions(m.Divergent, t.opts.Order) {
			dir := skew.Compare(m.Root.Version, o.Version)
			fmt.Fprintf(&b, " %s %s (%s)\n",
				versionStyle.Render(o.Version),
				markerStyle.Render(marker(dir)),
				pathStyle.Render(o.PathString(" > ")))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Ensure Text implements Reporter.
var _ Reporter = (*Text)(nil)
