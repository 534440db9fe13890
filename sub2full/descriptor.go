package sub2full

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nasa-jpl/subframe/detector"
)

// SPT header keywords that make up a Descriptor
const (
	KeyDetector = "SS_DTCTR"
	KeySubarray = "SS_SUBAR"
	KeyXCorner  = "XCORNER"
	KeyYCorner  = "YCORNER"
	KeyNumRows  = "NUMROWS"
	KeyNumCols  = "NUMCOLS"
)

// Descriptor holds the geometry of one subarray readout.  Corners are relative
// to the readout register, not to the full frame.
type Descriptor struct {
	// Name identifies the descriptor in errors, usually the image filename
	Name string

	// Kind is the detector the subarray was read from
	Kind detector.Kind

	// Subarray is true if the image really is a subarray
	Subarray bool

	// XCorner and YCorner are the register-relative corner of the subarray
	XCorner, YCorner int

	// NumRows and NumCols are the extent of the subarray in pixels
	NumRows, NumCols int
}

// validate checks the geometry fields are populated and fit the detector
func (d Descriptor) validate() error {
	if d.Kind == detector.Unknown {
		return &FileError{Field: KeyDetector, Err: ErrMissingMetadata}
	}
	if d.NumRows <= 0 {
		return &FileError{Field: KeyNumRows, Err: ErrMissingMetadata}
	}
	if d.NumCols <= 0 {
		return &FileError{Field: KeyNumCols, Err: ErrMissingMetadata}
	}
	rows, cols := detector.Readout(d.Kind)
	if rows > 0 && d.NumRows > rows {
		return &FileError{Field: fmt.Sprintf("%s=%d", KeyNumRows, d.NumRows), Err: ErrInvalidGeometry}
	}
	if cols > 0 && d.NumCols > cols {
		return &FileError{Field: fmt.Sprintf("%s=%d", KeyNumCols, d.NumCols), Err: ErrInvalidGeometry}
	}
	return nil
}

// Point is a pixel position relative to the subarray corner
type Point struct {
	X, Y int
}

// ParsePoint parses a pair of strings into a Point.  Both must be given and be integers.
func ParsePoint(x, y string) (Point, error) {
	x, y = strings.TrimSpace(x), strings.TrimSpace(y)
	if x == "" || y == "" {
		return Point{}, &FileError{Field: fmt.Sprintf("x=%q y=%q", x, y), Err: ErrInvalidCoordinate}
	}
	xi, errx := strconv.Atoi(x)
	yi, erry := strconv.Atoi(y)
	if errx != nil || erry != nil {
		return Point{}, &FileError{Field: fmt.Sprintf("x=%q y=%q", x, y), Err: ErrInvalidCoordinate}
	}
	return Point{X: xi, Y: yi}, nil
}

// Span is an inclusive, 1-indexed range of pixels along one axis
type Span struct {
	Lo, Hi int
}

// Len is the number of pixels in the span
func (s Span) Len() int {
	return s.Hi - s.Lo + 1
}

// Section is a rectangle of the full frame
type Section struct {
	X, Y Span
}

// String renders the section in the IRAF image section style, [x0:x1,y0:y1]
func (s Section) String() string {
	return fmt.Sprintf("[%d:%d,%d:%d]", s.X.Lo, s.X.Hi, s.Y.Lo, s.Y.Hi)
}

// Mapping is the location of a subarray in the full frame.
// X0 and Y0 are always valid.  X1 and Y1 are only valid if Full is true.
type Mapping struct {
	X0, Y0 int
	X1, Y1 int

	// Full is true when the mapping carries the far bounds
	Full bool

	// Translated is true when X0, Y0 is a translated point rather than the corner
	Translated bool
}

// Tuple returns (x0, y0), or (x0, x1, y0, y1) for a full extent mapping
func (m Mapping) Tuple() []int {
	if m.Full {
		return []int{m.X0, m.X1, m.Y0, m.Y1}
	}
	return []int{m.X0, m.Y0}
}

// Section returns the full extent as a typed range pair.  It is only meaningful when Full is true.
func (m Mapping) Section() Section {
	return Section{X: Span{m.X0, m.X1}, Y: Span{m.Y0, m.Y1}}
}
