package resolver

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	errs "github.com/matzehuels/depskew/pkg/errors"
)

// File fetches a previously captured `npm ls --all --json` document.
// The names argument is ignored; filtering happens when occurrences are
// grouped by declared name.
type File struct {
	// Path is the document path, or "-" for Stdin.
	Path  string
	Stdin io.Reader
}

// Name returns "file".
func (f *File) Name() string { return "file" }

// Fetch reads the document.
func (f *File) Fetch(ctx context.Context, _ []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Path == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeResolverFailed, err, "read tree from stdin")
		}
		return data, nil
	}

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "no tree file %s", f.Path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeResolverFailed, err, "read %s", f.Path)
	}
	return data, nil
}

// Ensure File implements Fetcher.
var _ Fetcher = (*File)(nil)
