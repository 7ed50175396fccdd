package tree

import "slices"

// DefaultMaxDepth bounds traversal depth. npm never produces cycles in
// `npm ls` output, but trees handed in from elsewhere might.
const DefaultMaxDepth = 256

type options struct {
	maxDepth int
}

// Option configures a traversal.
type Option func(*options)

// WithMaxDepth limits traversal to n levels; top-level entries are level 1.
// Values <= 0 restore DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxDepth <= 0 {
		o.maxDepth = DefaultMaxDepth
	}
	return o
}

// Visitor is called once per node during [Walk]. path ends with the node's
// own segment; the slice must not be modified or retained past the call.
type Visitor func(node Node, path []PathSegment)

// Walk visits every node of t depth-first in pre-order, following entry
// order. Malformed nodes are visited too, and their children traversed.
func Walk(t Tree, visit Visitor, opts ...Option) {
	o := buildOptions(opts)
	for _, e := range t {
		walk(e.Node, []PathSegment{{Name: e.Name, Version: e.Node.PathVersion()}}, visit, o)
	}
}

func walk(n Node, path []PathSegment, visit Visitor, o options) {
	visit(n, path)

	children, ok := n.Children()
	if !ok || len(path) >= o.maxDepth {
		return
	}
	// Full slice expression so each child gets its own backing array.
	parent := path[:len(path):len(path)]
	for _, e := range children {
		walk(e.Node, append(parent, PathSegment{Name: e.Name, Version: e.Node.PathVersion()}), visit, o)
	}
}

// Flatten returns one Occurrence per valid package node in t, in
// depth-first pre-order. Flatten never fails: malformed nodes are skipped.
func Flatten(t Tree, opts ...Option) []Occurrence {
	result := []Occurrence{}
	Walk(t, func(n Node, path []PathSegment) {
		pkg, ok := n.(*PackageNode)
		if !ok {
			return
		}
		occ := Occurrence{
			Name:    path[len(path)-1].Name,
			Version: pkg.Version,
			Invalid: pkg.Invalid,
		}
		if len(path) > 1 {
			occ.Path = slices.Clone(path[:len(path)-1])
		}
		result = append(result, occ)
	}, opts...)
	return result
}
