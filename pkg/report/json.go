package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/matzehuels/depskew/pkg/buildinfo"
	"github.com/matzehuels/depskew/pkg/skew"
	"github.com/matzehuels/depskew/pkg/tree"
)

// JSON writes one indented document per run.
type JSON struct {
	opts Options
}

// Document is the JSON report shape.
type Document struct {
	// ID identifies the run (UUID v4).
	ID          string     `json:"id"`
	ToolVersion string     `json:"tool_version"`
	Checked     int        `json:"checked"`
	Consistent  bool       `json:"consistent"`
	Mismatches  []Mismatch `json:"mismatches"`
}

// Mismatch is a skew.Mismatch annotated for machine consumers.
type Mismatch struct {
	Name      string          `json:"name"`
	Root      tree.Occurrence `json:"root"`
	Invalid   bool            `json:"invalid"`
	Divergent []Divergent     `json:"divergent"`
}

// Divergent is a divergent occurrence with its direction from the root and
// its depth (number of ancestors).
type Divergent struct {
	tree.Occurrence
	Direction string `json:"direction"`
	Depth     int    `json:"depth"`
}

// NewDocument builds the report document for mismatches.
func NewDocument(mismatches []skew.Mismatch, opts Options) Document {
	doc := Document{
		ID:          uuid.NewString(),
		ToolVersion: buildinfo.Version,
		Checked:     opts.Checked,
		Consistent:  len(mismatches) == 0,
		Mismatches:  make([]Mismatch, 0, len(mismatches)),
	}
	for _, m := range mismatches {
		jm := Mismatch{
			Name:      m.Name,
			Root:      m.Root,
			Invalid:   m.Invalid(),
			Divergent: make([]Divergent, 0, len(m.Divergent)),
		}
		for _, o := range skew.SortVersions(m.Divergent, opts.Order) {
			jm.Divergent = append(jm.Divergent, Divergent{
				Occurrence: o,
				Direction:  skew.Compare(m.Root.Version, o.Version).String(),
				Depth:      o.Depth(),
			})
		}
		doc.Mismatches = append(doc.Mismatches, jm)
	}
	return doc
}

// Report writes the document.
func (j *JSON) Report(w io.Writer, mismatches []skew.Mismatch) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(mismatches, j.opts))
}

// Ensure JSON implements Reporter.
var _ Reporter = (*JSON)(nil)
