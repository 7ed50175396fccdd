// Package skew detects version skew among package occurrences.
//
// A package declared at the top level of a project may also be pulled in
// transitively at other versions (the diamond dependency problem). [Partition]
// groups flattened occurrences by declared package name, and [Detect] compares
// every occurrence in a group against its top-level (root) occurrence.
//
// Versions are compared as exact strings: "1.0.0" and "1.0.0+build" are
// reported as different even though semver considers them equal.
package skew

import (
	"slices"

	"github.com/matzehuels/depskew/pkg/tree"
)

// Group holds every occurrence of one package name.
type Group struct {
	Name        string
	Occurrences []tree.Occurrence
}

// Groups is an ordered partition of occurrences by name.
type Groups []Group

// Partition keeps only occurrences whose name is in declared and groups them
// by name. Groups are ordered by the first appearance of each name in occ;
// members keep their relative order.
func Partition(occ []tree.Occurrence, declared []string) Groups {
	want := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		want[name] = struct{}{}
	}

	index := make(map[string]int)
	var groups Groups
	for _, o := range occ {
		if _, ok := want[o.Name]; !ok {
			continue
		}
		i, ok := index[o.Name]
		if !ok {
			i = len(groups)
			index[o.Name] = i
			groups = append(groups, Group{Name: o.Name})
		}
		groups[i].Occurrences = append(groups[i].Occurrences, o)
	}
	return groups
}

// Mismatch reports a declared package whose occurrences disagree with the
// top-level one, or whose top-level version failed validation.
type Mismatch struct {
	Name string `json:"name"`
	// Root is the top-level occurrence.
	Root tree.Occurrence `json:"root"`
	// Divergent lists occurrences whose version differs from Root's.
	Divergent []tree.Occurrence `json:"divergent"`
}

// Invalid reports whether the root occurrence carries a validation message.
func (m Mismatch) Invalid() bool { return m.Root.Invalid != "" }

// Detect returns one Mismatch per group that has divergent occurrences or an
// invalid root. Groups without a top-level occurrence are skipped. Mismatches
// with an invalid root come first; otherwise group order is preserved.
func Detect(groups Groups) []Mismatch {
	result := []Mismatch{}
	for _, g := range groups {
		i := slices.IndexFunc(g.Occurrences, tree.Occurrence.IsRoot)
		if i < 0 {
			continue
		}
		root := g.Occurrences[i]

		divergent := []tree.Occurrence{}
		for _, o := range g.Occurrences {
			if o.Version != root.Version {
				divergent = append(divergent, o)
			}
		}

		if len(divergent) > 0 || root.Invalid != "" {
			result = append(result, Mismatch{Name: g.Name, Root: root, Divergent: divergent})
		}
	}

	slices.SortStableFunc(result, func(a, b Mismatch) int {
		switch {
		case a.Invalid() == b.Invalid():
			return 0
		case a.Invalid():
			return -1
		default:
			return 1
		}
	})
	return result
}

// Check flattens t and detects mismatches among the declared packages.
func Check(t tree.Tree, declared []string, opts ...tree.Option) []Mismatch {
	return Detect(Partition(tree.Flatten(t, opts...), declared))
}
