package tree

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/depskew/pkg/ordered"
)

// Limits npm applies to versions: overall length, and numeric components
// must fit a JavaScript safe integer.
const (
	maxVersionLength = 256
	maxSafeInteger   = 1<<53 - 1
)

// Reasons recorded on a MalformedNode.
const (
	ReasonNotObject     = "not an object"
	ReasonNoVersion     = "missing version"
	ReasonVersionType   = "version is not a string"
	ReasonInvalidSemver = "invalid semver"
)

// Parse decodes a JSON object mapping package names to nodes.
func Parse(data []byte) (Tree, error) {
	v, err := ordered.Parse(data)
	if err != nil {
		return nil, err
	}
	if !v.IsObject() {
		return nil, fmt.Errorf("dependency tree is a JSON %s, not an object", v.Kind)
	}
	return FromValue(v), nil
}

// FromValue converts a decoded JSON object into a Tree.
// A value that is not an object yields an empty tree.
func FromValue(v *ordered.Value) Tree {
	if !v.IsObject() {
		return nil
	}
	t := make(Tree, 0, len(v.Fields))
	for _, f := range v.Fields {
		t = append(t, Entry{Name: f.Key, Node: nodeFromValue(f.Value)})
	}
	return t
}

func nodeFromValue(v *ordered.Value) Node {
	if !v.IsObject() {
		return &MalformedNode{Reason: ReasonNotObject}
	}

	var (
		children Tree
		has      bool
	)
	if deps, ok := v.Get("dependencies"); ok && deps.IsObject() {
		children = FromValue(deps)
		has = true
	}

	ver, ok := v.Get("version")
	switch {
	case !ok:
		return &MalformedNode{Reason: ReasonNoVersion, Dependencies: children, HasDependencies: has}
	case !ver.IsString():
		return &MalformedNode{RawVersion: scalarText(ver), Reason: ReasonVersionType, Dependencies: children, HasDependencies: has}
	case !ValidVersion(ver.Text):
		return &MalformedNode{RawVersion: ver.Text, Reason: ReasonInvalidSemver, Dependencies: children, HasDependencies: has}
	}

	return &PackageNode{
		Version:         ver.Text,
		Invalid:         invalidText(v),
		Dependencies:    children,
		HasDependencies: has,
	}
}

// invalidText reads the "invalid" marker. npm 6 writes a message string,
// later versions may write a boolean.
func invalidText(v *ordered.Value) string {
	inv, ok := v.Get("invalid")
	if !ok {
		return ""
	}
	switch inv.Kind {
	case ordered.String:
		return inv.Text
	case ordered.Bool:
		if inv.Text == "true" {
			return "invalid"
		}
	}
	return ""
}

func scalarText(v *ordered.Value) string {
	switch v.Kind {
	case ordered.Number, ordered.Bool, ordered.String:
		return v.Text
	}
	return ""
}

// ParseVersion parses a version string the way npm does: surrounding
// whitespace and a single leading "v" are accepted, everything else must
// follow the semantic versioning grammar exactly.
func ParseVersion(s string) (*semver.Version, error) {
	if len(s) > maxVersionLength {
		return nil, fmt.Errorf("version longer than %d characters", maxVersionLength)
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "v")
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, err
	}
	if v.Major() > maxSafeInteger || v.Minor() > maxSafeInteger || v.Patch() > maxSafeInteger {
		return nil, fmt.Errorf("version %q has a component above %d", s, uint64(maxSafeInteger))
	}
	return v, nil
}

// ValidVersion reports whether s is a valid semantic version.
func ValidVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// IsPackage reports whether the raw JSON value is a valid package node.
func IsPackage(raw []byte) bool {
	v, err := ordered.Parse(raw)
	if err != nil {
		return false
	}
	_, ok := nodeFromValue(v).(*PackageNode)
	return ok
}

// HasDependencies reports whether the raw JSON value is an object with a
// mapping-shaped dependencies field.
func HasDependencies(raw []byte) bool {
	v, err := ordered.Parse(raw)
	if err != nil || !v.IsObject() {
		return false
	}
	deps, ok := v.Get("dependencies")
	return ok && deps.IsObject()
}
