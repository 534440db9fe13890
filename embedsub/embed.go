// Package embedsub places WFC3 subarray images inside an otherwise empty full frame.
//
// The output carries the same extensions as the input, each resized to the
// full detector.  Outside of the subarray, SCI, ERR, SAMP and TIME are zero and
// DQ is flagged 4.  WCS reference pixels are moved with the data and the
// subarray offsets (LTV) are cleared.
package embedsub

import (
	"errors"
	"fmt"
	"os"

	"github.com/nasa-jpl/subframe/detector"
	"github.com/nasa-jpl/subframe/naming"
	"github.com/nasa-jpl/subframe/product"
	"github.com/nasa-jpl/subframe/sub2full"
)

// ErrNamingConvention is returned for files that are not named like a calibrated
// product.  It is recoverable: batches skip the file and carry on.
var ErrNamingConvention = errors.New("can't properly parse name")

// Embed builds the full frame version of in, a subarray product described by d.
// in is not modified.
func Embed(in *product.Product, d sub2full.Descriptor) (*product.Product, sub2full.Mapping, error) {
	m, err := sub2full.Resolve(d, sub2full.Options{FullExtent: true})
	if err != nil {
		return nil, m, err
	}
	canvas, err := NewCanvas(d.Kind)
	if err != nil {
		return nil, m, &sub2full.FileError{File: d.Name, Err: err}
	}
	sec := m.Section()
	dx, dy := float64(m.X0-1), float64(m.Y0-1)

	out := &product.Product{HDUs: make([]*product.HDU, 0, len(in.HDUs))}
	for i, h := range in.HDUs {
		h = h.Clone()
		if i == 0 {
			h.Set("SUBARRAY", false)
			out.HDUs = append(out.HDUs, h)
			continue
		}
		if h.Table != nil {
			out.HDUs = append(out.HDUs, h)
			continue
		}
		if detector.HasExtension(d.Kind, h.Name) {
			if canvas.Has(h.Name) {
				return nil, m, &sub2full.FileError{File: d.Name, Field: h.Name, Err: fmt.Errorf("more than one %s extension", h.Name)}
			}
			err = paste(canvas, h, sec)
			if err != nil {
				return nil, m, &sub2full.FileError{File: d.Name, Field: h.Name, Err: err}
			}
			h.Data = canvas.Plane(h.Name)
			if h.Has("SIZAXIS1") {
				h.Set("SIZAXIS1", canvas.Cols)
			}
			if h.Has("SIZAXIS2") {
				h.Set("SIZAXIS2", canvas.Rows)
			}
		}
		reanchor(h, dx, dy)
		out.HDUs = append(out.HDUs, h)
	}
	return out, m, nil
}

// paste puts the data of h on the canvas.  Constant extensions stored without
// data (NAXIS=0 with PIXVALUE) are expanded to their value.
func paste(c *Canvas, h *product.HDU, sec sub2full.Section) error {
	if h.Data != nil {
		return c.Paste(h.Name, sec, h.Data)
	}
	c.Plane(h.Name)
	if !h.Has("PIXVALUE") {
		return nil
	}
	v, err := h.Float("PIXVALUE")
	if err != nil {
		return err
	}
	return c.Fill(h.Name, sec, v)
}

// reanchor moves the WCS reference pixel by the subarray offset and zeroes the
// linear transform vector
func reanchor(h *product.HDU, dx, dy float64) {
	if v, err := h.Float("CRPIX1"); err == nil {
		h.Set("CRPIX1", v+dx)
	}
	if v, err := h.Float("CRPIX2"); err == nil {
		h.Set("CRPIX2", v+dy)
	}
	if h.Has("LTV1") {
		h.Set("LTV1", 0.0)
	}
	if h.Has("LTV2") {
		h.Set("LTV2", 0.0)
	}
}

// Result describes what happened to one input file
type Result struct {
	// Input is the subarray file
	Input string

	// Output is the full frame file written, empty when skipped
	Output string

	// Section is where the subarray landed in the full frame
	Section sub2full.Section

	// Skipped is true when the file was passed over, see Reason
	Skipped bool
	Reason  string
}

// EmbedFile embeds the calibrated subarray product name, using the geometry in
// its SPT companion, and writes the full frame product next to it (see
// naming.FullFrame).  An existing output is never overwritten.
func EmbedFile(name string) (Result, error) {
	res := Result{Input: name}
	if !naming.IsEmbeddable(name) {
		return res, &sub2full.FileError{File: name, Err: ErrNamingConvention}
	}
	out, err := naming.FullFrame(name)
	if err != nil {
		return res, &sub2full.FileError{File: name, Err: ErrNamingConvention}
	}
	if _, err := os.Lstat(out); err == nil {
		return res, &sub2full.FileError{File: name, Field: out, Err: product.ErrDestinationExists}
	}

	d, err := sub2full.ReadDescriptor(name)
	if err != nil {
		return res, err
	}
	in, err := product.Read(name)
	if err != nil {
		return res, &sub2full.FileError{File: name, Err: err}
	}
	full, m, err := Embed(in, d)
	if err != nil {
		return res, err
	}
	res.Section = m.Section()
	err = product.Write(out, full)
	if err != nil {
		return res, &sub2full.FileError{File: name, Err: err}
	}
	res.Output = out
	return res, nil
}
