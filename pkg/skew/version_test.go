package skew

import (
	"testing"

	"github.com/matzehuels/depskew/pkg/tree"
)

func versions(occ []tree.Occurrence) []string {
	out := make([]string, len(occ))
	for i, o := range occ {
		out[i] = o.Version
	}
	return out
}

func TestSortVersions(t *testing.T) {
	in := []tree.Occurrence{
		occ("a", "1.10.0"),
		occ("a", "garbage"),
		occ("a", "1.2.0"),
		occ("a", "2.0.0-beta.1"),
		occ("a", "2.0.0"),
	}

	tests := []struct {
		order Order
		want  []string
	}{
		{Ascending, []string{"1.2.0", "1.10.0", "2.0.0-beta.1", "2.0.0", "garbage"}},
		{Descending, []string{"2.0.0", "2.0.0-beta.1", "1.10.0", "1.2.0", "garbage"}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			got := versions(SortVersions(in, tt.order))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("SortVersions = %v, want %v", got, tt.want)
				}
			}
		})
	}

	if in[0].Version != "1.10.0" {
		t.Error("SortVersions must not modify its input")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		root, version string
		want          Direction
	}{
		{"1.0.0", "0.9.0", Lower},
		{"1.0.0", "1.0.1", Higher},
		{"1.0.0", "1.0.0+build", Equal},
		{"1.0.0", "1.0.0-rc.1", Lower},
		{"1.0.0", "nope", Incomparable},
		{"nope", "1.0.0", Incomparable},
	}

	for _, tt := range tests {
		t.Run(tt.root+"_"+tt.version, func(t *testing.T) {
			if got := Compare(tt.root, tt.version); got != tt.want {
				t.Errorf("Compare(%q, %q) = %v, want %v", tt.root, tt.version, got, tt.want)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{"": Ascending, "asc": Ascending, "DESC": Descending, "descending": Descending} {
		got, err := ParseOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseOrder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOrder("sideways"); err == nil {
		t.Error("ParseOrder(sideways) should fail")
	}
}
