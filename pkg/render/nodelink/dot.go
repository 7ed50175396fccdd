package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/depskew/pkg/skew"
	"github.com/matzehuels/depskew/pkg/tree"
)

// Options configures diagram generation.
type Options struct {
	// Project labels a synthetic root node linked to every top-level entry.
	// Empty omits it.
	Project string
	// SkewOnly drops nodes that are neither skewed nor an ancestor of a
	// skewed occurrence.
	SkewOnly bool
}

type nodeKind int

const (
	kindPlain nodeKind = iota
	kindRoot
	kindDivergent
	kindInvalidRoot
	kindMalformed
)

type node struct {
	id      string
	name    string
	version string
	kind    nodeKind
}

type edge struct{ from, to string }

type graph struct {
	nodes []*node
	index map[string]*node
	edges []edge
	seen  map[edge]bool
}

func (g *graph) addNode(n *node) {
	if _, ok := g.index[n.id]; ok {
		return
	}
	g.index[n.id] = n
	g.nodes = append(g.nodes, n)
}

func (g *graph) addEdge(from, to string) {
	e := edge{from, to}
	if g.seen[e] {
		return
	}
	g.seen[e] = true
	g.edges = append(g.edges, e)
}

// ToDOT converts t to Graphviz DOT, highlighting the packages in mismatches.
func ToDOT(t tree.Tree, mismatches []skew.Mismatch, opts Options) string {
	g := build(t, mismatches, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, n := range g.nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.id, strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func build(t tree.Tree, mismatches []skew.Mismatch, opts Options) *graph {
	byName := make(map[string]skew.Mismatch, len(mismatches))
	for _, m := range mismatches {
		byName[m.Name] = m
	}

	var keep map[string]bool
	if opts.SkewOnly {
		keep = make(map[string]bool)
		tree.Walk(t, func(_ tree.Node, path []tree.PathSegment) {
			if _, ok := byName[path[len(path)-1].Name]; !ok {
				return
			}
			for _, s := range path {
				keep[s.String()] = true
			}
		})
	}

	g := &graph{index: make(map[string]*node), seen: make(map[edge]bool)}
	if opts.Project != "" {
		g.addNode(&node{id: opts.Project, name: opts.Project})
	}

	tree.Walk(t, func(n tree.Node, path []tree.PathSegment) {
		self := path[len(path)-1]
		id := self.String()
		if keep != nil && !keep[id] {
			return
		}

		g.addNode(&node{id: id, name: self.Name, version: self.Version, kind: classify(n, self, len(path) == 1, byName)})
		switch {
		case len(path) > 1:
			// A kept node can be reached through a dropped parent.
			if parent := path[len(path)-2].String(); keep == nil || keep[parent] {
				g.addEdge(parent, id)
			}
		case opts.Project != "":
			g.addEdge(opts.Project, id)
		}
	})
	return g
}

func classify(n tree.Node, self tree.PathSegment, topLevel bool, byName map[string]skew.Mismatch) nodeKind {
	if _, ok := n.(*tree.MalformedNode); ok {
		return kindMalformed
	}
	m, ok := byName[self.Name]
	if !ok {
		return kindPlain
	}
	if self.Version != m.Root.Version {
		return kindDivergent
	}
	if topLevel && m.Invalid() {
		return kindInvalidRoot
	}
	return kindRoot
}

func fmtAttrs(n *node) []string {
	label := n.name
	if n.version != "" {
		label += "\n" + n.version
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.kind {
	case kindRoot:
		attrs = append(attrs, "fillcolor=palegreen")
	case kindDivergent:
		attrs = append(attrs, "fillcolor=lightcoral")
	case kindInvalidRoot:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightyellow")
	case kindMalformed:
		attrs = append(attrs, "style=\"rounded,filled,dotted\"", "fillcolor=lightgrey", "fontcolor=gray40")
	}
	return attrs
}
