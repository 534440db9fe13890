// Package sub2full computes where a WFC3 subarray sits in the full detector frame.
//
// Resolution is a pure function of a Descriptor; ReadDescriptor and ResolveFiles
// build descriptors from the companion SPT files that travel with each exposure.
package sub2full

import (
	"github.com/nasa-jpl/subframe/naming"
)

// Options controls what Resolve returns
type Options struct {
	// Point, if not nil, is translated from subarray to full frame coordinates
	// and returned in place of the corner.  FullExtent is ignored when Point is set.
	Point *Point

	// FullExtent requests the far bounds of the subarray as well as the corner
	FullExtent bool
}

// Resolve returns the full frame location of the subarray described by d
func Resolve(d Descriptor, opts Options) (Mapping, error) {
	if !d.Subarray {
		return Mapping{}, &FileError{File: d.Name, Err: ErrNotSubarray}
	}
	if err := d.validate(); err != nil {
		return Mapping{}, withFile(err, d.Name)
	}

	var m Mapping
	if d.XCorner == 0 && d.YCorner == 0 {
		m = Mapping{X0: 1, X1: d.NumCols, Y0: 1, Y1: d.NumRows, Full: true}
	} else {
		mapper, ok := Mapper(d.Kind)
		if !ok {
			return Mapping{}, &FileError{File: d.Name, Field: d.Kind.String(), Err: ErrUnknownDetector}
		}
		m = mapper.MapCorner(d)
	}

	if opts.Point != nil {
		return Mapping{X0: m.X0 + opts.Point.X, Y0: m.Y0 + opts.Point.Y, Translated: true}, nil
	}
	if !opts.FullExtent {
		return Mapping{X0: m.X0, Y0: m.Y0}, nil
	}
	return m, nil
}

// ResolveAll resolves each descriptor in order.  The first failure aborts the
// batch, and the error names the descriptor that caused it.
func ResolveAll(ds []Descriptor, opts Options) ([]Mapping, error) {
	out := make([]Mapping, 0, len(ds))
	for _, d := range ds {
		m, err := Resolve(d, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ResolveFiles expands names (see naming.Expand), reads the SPT companion of each
// file, and resolves it.  It is fail-fast; callers that want partial results
// should call it once per file.
func ResolveFiles(names []string, opts Options) ([]Mapping, error) {
	files, err := naming.Expand(names...)
	if err != nil {
		return nil, err
	}
	out := make([]Mapping, 0, len(files))
	for _, f := range files {
		d, err := ReadDescriptor(f)
		if err != nil {
			return nil, err
		}
		m, err := Resolve(d, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
