// Package report writes mismatch results for people and machines.
//
// Three formats are available through [New]: "text" (the colored listing
// printed by `depskew check`), "json" and "table". Divergent versions are
// listed in semver order; the mismatch order itself is never changed.
package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	errs "github.com/matzehuels/depskew/pkg/errors"
	"github.com/matzehuels/depskew/pkg/skew"
)

// Formats lists the accepted format names.
var Formats = []string{"text", "json", "table"}

// Reporter writes a set of mismatches.
type Reporter interface {
	Report(w io.Writer, mismatches []skew.Mismatch) error
}

// Options configures a Reporter.
type Options struct {
	// Order sorts each mismatch's divergent versions.
	Order skew.Order
	// NoColor disables ANSI styling.
	NoColor bool
	// Checked is the number of declared packages that were checked.
	Checked int
}

// New returns the reporter for format.
func New(format string, opts Options) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &Text{opts: opts}, nil
	case "json":
		return &JSON{opts: opts}, nil
	case "table":
		return &Table{opts: opts}, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want %s)", format, strings.Join(Formats, ", "))
}

func renderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// Colors follow the CLI palette.
var (
	colorGreen  = lipgloss.Color("35")
	colorRed    = lipgloss.Color("167")
	colorYellow = lipgloss.Color("220")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

func marker(d skew.Direction) string {
	switch d {
	case skew.Lower:
		return "↓"
	case skew.Higher:
		return "↑"
	case skew.Equal:
		return "="
	}
	return "?"
}
