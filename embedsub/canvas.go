package embedsub

import (
	"errors"
	"fmt"

	"github.com/nasa-jpl/subframe/detector"
	"github.com/nasa-jpl/subframe/sub2full"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when subarray data does not fit the resolved section
var ErrShapeMismatch = errors.New("subarray data does not match its full frame section")

// Canvas is a set of full frame planes, one per extension name.  Planes are
// allocated on first use and start out holding detector.Fill for their extension.
type Canvas struct {
	Kind       detector.Kind
	Rows, Cols int

	planes map[string]*mat.Dense
}

// NewCanvas returns an empty canvas sized to the full frame of k
func NewCanvas(k detector.Kind) (*Canvas, error) {
	rows, cols := detector.Frame(k)
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("no full frame size for detector %v", k)
	}
	return &Canvas{Kind: k, Rows: rows, Cols: cols, planes: make(map[string]*mat.Dense)}, nil
}

// Plane returns the plane for ext, allocating it if needed
func (c *Canvas) Plane(ext string) *mat.Dense {
	if p, ok := c.planes[ext]; ok {
		return p
	}
	data := make([]float64, c.Rows*c.Cols)
	if fill := detector.Fill(ext); fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}
	p := mat.NewDense(c.Rows, c.Cols, data)
	c.planes[ext] = p
	return p
}

// Has reports if a plane has been allocated for ext
func (c *Canvas) Has(ext string) bool {
	_, ok := c.planes[ext]
	return ok
}

// window returns the view of plane ext covered by sec
func (c *Canvas) window(ext string, sec sub2full.Section) (*mat.Dense, error) {
	if sec.X.Lo < 1 || sec.Y.Lo < 1 || sec.X.Hi > c.Cols || sec.Y.Hi > c.Rows || sec.X.Len() < 1 || sec.Y.Len() < 1 {
		return nil, fmt.Errorf("%s section %v outside of the %dx%d frame: %w", ext, sec, c.Rows, c.Cols, ErrShapeMismatch)
	}
	return c.Plane(ext).Slice(sec.Y.Lo-1, sec.Y.Hi, sec.X.Lo-1, sec.X.Hi).(*mat.Dense), nil
}

// Paste copies src into plane ext at sec.  src must be exactly the size of sec.
func (c *Canvas) Paste(ext string, sec sub2full.Section, src mat.Matrix) error {
	rows, cols := src.Dims()
	if rows != sec.Y.Len() || cols != sec.X.Len() {
		return fmt.Errorf("%s data is %dx%d, section %v is %dx%d: %w", ext, rows, cols, sec, sec.Y.Len(), sec.X.Len(), ErrShapeMismatch)
	}
	w, err := c.window(ext, sec)
	if err != nil {
		return err
	}
	w.Copy(src)
	return nil
}

// Fill sets every pixel of plane ext inside sec to v
func (c *Canvas) Fill(ext string, sec sub2full.Section, v float64) error {
	w, err := c.window(ext, sec)
	if err != nil {
		return err
	}
	rows, cols := w.Dims()
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			w.Set(r, col, v)
		}
	}
	return nil
}
