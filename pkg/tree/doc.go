// Package tree models resolved dependency trees and flattens them into
// path-annotated package occurrences.
//
// # Decoding
//
// Trees arrive as semi-trusted JSON from the package manager (the
// "dependencies" object of `npm ls --all --json`). [Parse] and [FromValue]
// validate every node at the boundary and produce either a [PackageNode]
// (an object with a valid semantic version) or a [MalformedNode]. Nothing in
// a malformed tree is an error: bad nodes simply carry no occurrence.
//
// # Flattening
//
// [Flatten] walks the tree depth-first in pre-order, following the JSON key
// order, and emits one [Occurrence] per [PackageNode]:
//
//	t, _ := tree.Parse(data)
//	for _, occ := range tree.Flatten(t) {
//	    fmt.Println(occ, occ.PathString(" > "))
//	}
//
// Top-level occurrences have a nil Path; deeper ones list their ancestors
// from the top level down to the immediate parent.
package tree
