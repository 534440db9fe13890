/*Package detector describes the fixed readout geometry of the two WFC3 detectors

The constants here come from the detector hardware: the size of the full frame,
the width of the serial overscan on the UVIS CCDs and the reference pixel border
on the IR array.  They are used as-is and should not be re-derived.
*/
package detector

import (
	"fmt"
	"strings"
)

// Kind is a detector technology
type Kind int

const (
	// Unknown is the zero Kind
	Unknown Kind = iota

	// UVIS is the two-chip CCD channel
	UVIS

	// IR is the HgCdTe infrared channel
	IR
)

const (
	// UVISHalfWidth is the number of rows read through one UVIS amplifier quadrant
	UVISHalfWidth = 2051

	// UVISSerialOverscan is the width of the serial overscan ahead of the first
	// imaging column on a UVIS amplifier
	UVISSerialOverscan = 25

	// UVISMinColumn and UVISMaxColumn bound the full frame columns a UVIS subarray may occupy
	UVISMinColumn = 1
	UVISMaxColumn = 4096

	// IROverscan is the reference pixel border on each side of the IR array
	IROverscan = 5

	// IRBorder is the total reference pixel border along one IR axis
	IRBorder = 2 * IROverscan

	// DQOutside is the data quality flag given to pixels outside of the subarray
	DQOutside = 4
)

// Extension names used in WFC3 calibrated products
const (
	SCI  = "SCI"
	ERR  = "ERR"
	DQ   = "DQ"
	SAMP = "SAMP"
	TIME = "TIME"
)

var names = map[Kind]string{
	Unknown: "UNKNOWN",
	UVIS:    "UVIS",
	IR:      "IR",
}

// String implements fmt.Stringer
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a header value such as "UVIS" or "IR" to a Kind.
// Case and surrounding blanks are ignored.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UVIS":
		return UVIS, nil
	case "IR":
		return IR, nil
	}
	return Unknown, fmt.Errorf("detector: unknown detector %q", s)
}

// Frame returns the (rows, cols) of the full frame of a detector
func Frame(k Kind) (rows, cols int) {
	switch k {
	case UVIS:
		return UVISHalfWidth, UVISMaxColumn
	case IR:
		return 1014, 1014
	}
	return 0, 0
}

// Readout returns the largest (rows, cols) a subarray of the detector can
// read out.  IR subarrays include the reference pixel border.  It is (0, 0)
// for kinds with no fixed size.
func Readout(k Kind) (rows, cols int) {
	rows, cols = Frame(k)
	if k == IR {
		rows, cols = rows+IRBorder, cols+IRBorder
	}
	return rows, cols
}

// Extensions returns the image extensions a calibrated product of the detector carries
func Extensions(k Kind) []string {
	switch k {
	case UVIS:
		return []string{SCI, ERR, DQ}
	case IR:
		return []string{SCI, ERR, DQ, SAMP, TIME}
	}
	return nil
}

// HasExtension reports if name is one of Extensions(k)
func HasExtension(k Kind, name string) bool {
	for _, ext := range Extensions(k) {
		if ext == name {
			return true
		}
	}
	return false
}

// Fill is the value a full frame plane holds where the subarray has no data
func Fill(ext string) float64 {
	if ext == DQ {
		return DQOutside
	}
	return 0
}
