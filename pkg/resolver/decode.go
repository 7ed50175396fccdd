package resolver

import (
	errs "github.com/matzehuels/depskew/pkg/errors"
	"github.com/matzehuels/depskew/pkg/ordered"
	"github.com/matzehuels/depskew/pkg/tree"
)

// Decode extracts the dependency tree from `npm ls --json` output.
// Output that is not JSON is an INVALID_TREE error. A document without a
// mapping-shaped "dependencies" field yields an empty tree.
func Decode(data []byte) (tree.Tree, error) {
	v, err := ordered.Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidTree, err, "parse npm ls output")
	}
	deps, ok := v.Get("dependencies")
	if !ok || !deps.IsObject() {
		return tree.Tree{}, nil
	}
	return tree.FromValue(deps), nil
}
