package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	errs "github.com/matzehuels/depskew/pkg/errors"
)

const sample = `{
  "name": "web",
  "version": "1.2.3",
  "dependencies": {"react": "^18.2.0", "lodash": "4.17.21", "zod": "^3.0.0"},
  "devDependencies": {"vitest": "^1.0.0", "lodash": "^4.17.0"}
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		includeDev bool
		want       DependencyList
	}{
		{
			name: "dependencies only",
			want: DependencyList{
				{"react", "^18.2.0"},
				{"lodash", "4.17.21"},
				{"zod", "^3.0.0"},
			},
		},
		{
			name:       "with dev dependencies",
			includeDev: true,
			want: DependencyList{
				{"react", "^18.2.0"},
				{"lodash", "^4.17.0"},
				{"zod", "^3.0.0"},
				{"vitest", "^1.0.0"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(sample), tt.includeDev)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if m.Name != "web" || m.Version != "1.2.3" {
				t.Errorf("name/version = %q/%q", m.Name, m.Version)
			}
			if !reflect.DeepEqual(m.Dependencies, tt.want) {
				t.Errorf("Dependencies = %v, want %v", m.Dependencies, tt.want)
			}
		})
	}
}

func TestParseMissingSections(t *testing.T) {
	m, err := Parse([]byte(`{"name":"empty","dependencies":[]}`), true)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want none", m.Dependencies)
	}
	if names := m.Dependencies.Names(); len(names) != 0 {
		t.Errorf("Names = %v", names)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,2]`, `"str"`} {
		if _, err := Parse([]byte(in), false); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Read(path, false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := m.Dependencies.Names(); !reflect.DeepEqual(got, []string{"react", "lodash", "zod"}) {
		t.Errorf("Names = %v", got)
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, Filename), true)
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %v, want %v", errs.GetCode(err), errs.ErrCodeFileNotFound)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Read(bad, true)
	if !errs.Is(err, errs.ErrCodeInvalidManifest) {
		t.Errorf("bad file: code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidManifest)
	}
}
