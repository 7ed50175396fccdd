// Package manifest reads the declared dependencies of a Node.js project from
// its package.json.
//
// Only the top-level "name", "version", "dependencies" and (optionally)
// "devDependencies" fields are read. Declaration order is kept: when a
// package appears in both maps it stays at its "dependencies" position and
// takes the "devDependencies" range, as an object spread would.
package manifest

import (
	"errors"
	"io/fs"
	"os"

	errs "github.com/matzehuels/depskew/pkg/errors"
	"github.com/matzehuels/depskew/pkg/ordered"
)

// Filename is the manifest file npm reads.
const Filename = "package.json"

// Dependency is a declared package and its version range.
type Dependency struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

// DependencyList is an ordered list of declared dependencies with unique names.
type DependencyList []Dependency

// Names returns the declared names in order.
func (l DependencyList) Names() []string {
	names := make([]string, len(l))
	for i, d := range l {
		names[i] = d.Name
	}
	return names
}

// Manifest is the subset of package.json that depskew uses.
type Manifest struct {
	Name         string
	Version      string
	Dependencies DependencyList
}

// Read loads the manifest at path.
func Read(path string, includeDev bool) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "no %s found", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "read %s", path)
	}
	m, err := Parse(data, includeDev)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return m, nil
}

// Parse decodes package.json content.
func Parse(data []byte, includeDev bool) (*Manifest, error) {
	v, err := ordered.Parse(data)
	if err != nil {
		return nil, err
	}
	if !v.IsObject() {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "manifest is a JSON %s, not an object", v.Kind)
	}

	m := &Manifest{
		Name:    stringField(v, "name"),
		Version: stringField(v, "version"),
	}

	index := make(map[string]int)
	add := func(field string) {
		deps, ok := v.Get(field)
		if !ok || !deps.IsObject() {
			return
		}
		for _, f := range deps.Fields {
			d := Dependency{Name: f.Key}
			if f.Value.IsString() {
				d.Range = f.Value.Text
			}
			if i, ok := index[f.Key]; ok {
				m.Dependencies[i] = d
				continue
			}
			index[f.Key] = len(m.Dependencies)
			m.Dependencies = append(m.Dependencies, d)
		}
	}
	add("dependencies")
	if includeDev {
		add("devDependencies")
	}
	return m, nil
}

func stringField(v *ordered.Value, key string) string {
	if f, ok := v.Get(key); ok && f.IsString() {
		return f.Text
	}
	return ""
}
