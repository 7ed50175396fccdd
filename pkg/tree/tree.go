package tree

import (
	"strings"
)

// Node is one entry of a dependency tree as reported by the package manager.
// It is either a *PackageNode or a *MalformedNode.
type Node interface {
	// PathVersion is the version text recorded for this node in the paths of
	// its descendants.
	PathVersion() string
	// Children returns the node's direct dependencies. The second result is
	// false when the node has no mapping-shaped dependencies field.
	Children() (Tree, bool)

	isNode()
}

// PackageNode is a well-formed node: an object whose version is a valid
// semantic version.
type PackageNode struct {
	Version string
	// Invalid carries the package manager's validation message, if any.
	Invalid      string
	Dependencies Tree
	// HasDependencies is true when the dependencies field was an object,
	// even an empty one.
	HasDependencies bool
}

func (n *PackageNode) PathVersion() string    { return n.Version }
func (n *PackageNode) Children() (Tree, bool) { return n.Dependencies, n.HasDependencies }
func (*PackageNode) isNode()                  {}

// MalformedNode is a node that is not a valid package: not an object, or
// with a missing, non-string or unparsable version. It never produces an
// occurrence, but its children are still traversed.
type MalformedNode struct {
	// RawVersion is the textual form of the version field ("" if absent or
	// not a scalar).
	RawVersion      string
	Reason          string
	Dependencies    Tree
	HasDependencies bool
}

func (n *MalformedNode) PathVersion() string    { return n.RawVersion }
func (n *MalformedNode) Children() (Tree, bool) { return n.Dependencies, n.HasDependencies }
func (*MalformedNode) isNode()                  {}

// Entry is a named node within a Tree.
type Entry struct {
	Name string
	Node Node
}

// Tree maps package names to nodes, in the order the package manager listed
// them. Names are unique within one Tree.
type Tree []Entry

// Names returns the entry names in order.
func (t Tree) Names() []string {
	names := make([]string, len(t))
	for i, e := range t {
		names[i] = e.Name
	}
	return names
}

// Get returns the node for name.
func (t Tree) Get(name string) (Node, bool) {
	for _, e := range t {
		if e.Name == name {
			return e.Node, true
		}
	}
	return nil, false
}

// Size returns the total number of nodes in t, at every depth.
func (t Tree) Size() int {
	n := 0
	for _, e := range t {
		n++
		if children, ok := e.Node.Children(); ok {
			n += children.Size()
		}
	}
	return n
}

// PathSegment identifies one ancestor on the way to an occurrence.
type PathSegment struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// String returns "name@version".
func (s PathSegment) String() string { return s.Name + "@" + s.Version }

// Occurrence is one appearance of a package at a position in the tree.
type Occurrence struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Invalid string `json:"invalid,omitempty"`
	// Path lists the ancestors from the top level down to the immediate
	// parent. It is nil for top-level occurrences.
	Path []PathSegment `json:"path,omitempty"`
}

// Depth returns the number of ancestors.
func (o Occurrence) Depth() int { return len(o.Path) }

// IsRoot reports whether o is a top-level occurrence.
func (o Occurrence) IsRoot() bool { return o.Path == nil }

// String returns "name@version".
func (o Occurrence) String() string { return o.Name + "@" + o.Version }

// PathString joins the ancestor path with sep, e.g. "a@1.0.0 > b@2.0.0".
func (o Occurrence) PathString(sep string) string {
	parts := make([]string, len(o.Path))
	for i, s := range o.Path {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}
