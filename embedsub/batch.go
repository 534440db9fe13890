package embedsub

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/nasa-jpl/subframe/naming"
	"golang.org/x/sync/errgroup"
)

// Batch embeds many files.  Naming convention problems are logged and the file
// skipped; any other error stops the batch.
type Batch struct {
	// Workers is the number of files processed at once.  Values below 1 mean 1.
	Workers int

	// Log receives one status line per file and one warning per skipped file.
	// If nil, nothing is logged.
	Log *log.Logger
}

func (b Batch) logger() *log.Logger {
	if b.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return b.Log
}

// Run expands names (see naming.Expand) and embeds each file.  The results of
// every file that completed or was skipped are returned in input order, along
// with the first unrecoverable error, if any.  Once an error occurs no new files
// are started.
func (b Batch) Run(ctx context.Context, names ...string) ([]Result, error) {
	files, err := naming.Expand(names...)
	if err != nil {
		return nil, err
	}
	lg := b.logger()
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]*Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := EmbedFile(f)
			if errors.Is(err, ErrNamingConvention) {
				lg.Printf("Warning: Can't properly parse '%s'; Skipping\n", f)
				res.Skipped = true
				res.Reason = err.Error()
				results[i] = &res
				return nil
			}
			if err != nil {
				return err
			}
			lg.Printf("%s: Subarray image section [x1,x2,y1,y2] = %v\n", f, res.Section)
			lg.Printf("Image saved to: %s\n", res.Output)
			results[i] = &res
			return nil
		})
	}
	err = g.Wait()

	out := make([]Result, 0, len(files))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, err
}
