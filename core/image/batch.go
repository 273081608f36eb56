package image

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sourcegraph/conc/pool"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// ViewFiles views every path with at most workers files in flight. The
// result slice is in input order; a file that failed has a nil entry and
// its error is part of the returned *multierror.Error.
func ViewFiles(paths []string, workers int, opts exif.DecodeOptions) ([]*core.Metadata, error) {
	if workers < 1 {
		workers = 1
	}
	if opts.Registry == nil {
		opts.Registry = tags.New()
	}
	results := make([]*core.Metadata, len(paths))
	errs := make([]error, len(paths))

	p := pool.New().WithMaxGoroutines(workers)
	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			results[i], errs[i] = viewFile(path, opts)
		})
	}
	p.Wait()

	var merr *multierror.Error
	for i, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", paths[i], err))
		}
	}
	return results, merr.ErrorOrNil()
}

func viewFile(path string, opts exif.DecodeOptions) (*core.Metadata, error) {
	format, err := core.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return New(format, opts).View(path)
}
