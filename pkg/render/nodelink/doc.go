// Package nodelink renders a resolved dependency tree as a node-link diagram.
//
// # Overview
//
// Each distinct name@version reached in the tree becomes one Graphviz node,
// and each parent/child relation one edge, so a package installed once but
// required from several places appears once with several incoming arrows.
// Packages with version skew are colored:
//
//   - palegreen: the top-level (root) version of a skewed package
//   - lightcoral: a divergent copy of a skewed package
//   - lightyellow, dashed: a root whose version npm flagged as invalid
//   - lightgrey, dotted: a malformed tree node
//
// # Usage
//
//	dot := nodelink.ToDOT(t, mismatches, nodelink.Options{SkewOnly: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// With [Options.SkewOnly] only skewed packages and the chains that pull
// them in are drawn, which keeps large trees readable.
package nodelink
