package tree_test

import (
	"fmt"

	"github.com/matzehuels/depskew/pkg/tree"
)

func ExampleFlatten() {
	t, _ := tree.Parse([]byte(`{
	  "a": {"version": "1.0.0", "dependencies": {"b": {"version": "2.0.0"}}},
	  "b": {"version": "2.1.0"}
	}`))

	for _, occ := range tree.Flatten(t) {
		if occ.IsRoot() {
			fmt.Println(occ)
			continue
		}
		fmt.Printf("%s (%s)\n", occ, occ.PathString(" > "))
	}
	// Output:
	// a@1.0.0
	// b@2.0.0 (a@1.0.0)
	// b@2.1.0
}
