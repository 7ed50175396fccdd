package skew

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/depskew/pkg/tree"
)

// Order selects the direction for [SortVersions].
type Order int

const (
	Ascending Order = iota
	Descending
)

// ParseOrder accepts "asc"/"ascending" and "desc"/"descending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q (want asc or desc)", s)
}

// String returns "asc" or "desc".
func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// SortVersions returns a copy of occ sorted by semantic version. Versions
// that do not parse keep their relative order after all parsable ones.
func SortVersions(occ []tree.Occurrence, order Order) []tree.Occurrence {
	sorted := slices.Clone(occ)
	parsed := make(map[string]*semver.Version, len(sorted))
	for _, o := range sorted {
		if _, ok := parsed[o.Version]; ok {
			continue
		}
		v, err := tree.ParseVersion(o.Version)
		if err != nil {
			v = nil
		}
		parsed[o.Version] = v
	}

	slices.SortStableFunc(sorted, func(a, b tree.Occurrence) int {
		va, vb := parsed[a.Version], parsed[b.Version]
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		if order == Descending {
			return vb.Compare(va)
		}
		return va.Compare(vb)
	})
	return sorted
}

// Direction describes a version relative to the root version.
type Direction int

const (
	Incomparable Direction = iota
	Lower
	Equal
	Higher
)

// String returns a short label for display.
func (d Direction) String() string {
	switch d {
	case Lower:
		return "lower"
	case Equal:
		return "equal"
	case Higher:
		return "higher"
	default:
		return "incomparable"
	}
}

// Compare places version relative to root by semver precedence. Build
// metadata is ignored, so textually different versions may compare Equal.
func Compare(root, version string) Direction {
	rv, err := tree.ParseVersion(root)
	if err != nil {
		return Incomparable
	}
	v, err := tree.ParseVersion(version)
	if err != nil {
		return Incomparable
	}
	switch c := v.Compare(rv); {
	case c < 0:
		return Lower
	case c > 0:
		return Higher
	default:
		return Equal
	}
}
