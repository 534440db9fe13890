package sub2full

import (
	"sync"

	"github.com/nasa-jpl/subframe/detector"
)

// CornerMapper converts the register-relative corner of a subarray into its
// full frame bounds.  Implementations are only called for subarrays that are
// not at the register origin.
type CornerMapper interface {
	MapCorner(d Descriptor) Mapping
}

// CornerMapperFunc adapts a function to a CornerMapper
type CornerMapperFunc func(Descriptor) Mapping

// MapCorner calls f(d)
func (f CornerMapperFunc) MapCorner(d Descriptor) Mapping {
	return f(d)
}

// uvisMapper handles the two-amplifier UVIS serial register.  Columns are shifted
// by the serial overscan and both ends are clamped to the imaging area.
type uvisMapper struct{}

func (uvisMapper) MapCorner(d Descriptor) Mapping {
	a1 := d.YCorner
	a2 := detector.UVISHalfWidth - d.XCorner - d.NumRows
	if d.XCorner >= detector.UVISHalfWidth {
		a2 += detector.UVISHalfWidth
	}

	x0 := a1 + 1 - detector.UVISSerialOverscan
	x1 := x0 + d.NumCols - 1 // from the unclamped start
	y0 := a2 + 1
	y1 := y0 + d.NumRows - 1

	return Mapping{X0: clampColumn(x0), X1: clampColumn(x1), Y0: y0, Y1: y1, Full: true}
}

func clampColumn(x int) int {
	if x < detector.UVISMinColumn {
		return detector.UVISMinColumn
	}
	if x > detector.UVISMaxColumn {
		return detector.UVISMaxColumn
	}
	return x
}

// irMapper handles the IR array, whose subarrays include the reference pixel
// border on both sides of each axis.
type irMapper struct{}

func (irMapper) MapCorner(d Descriptor) Mapping {
	a1 := d.YCorner - detector.IROverscan
	a2 := d.XCorner - detector.IROverscan

	x0 := a1 + 1
	y0 := a2 + 1
	return Mapping{
		X0:   x0,
		X1:   x0 + d.NumCols - detector.IRBorder - 1,
		Y0:   y0,
		Y1:   y0 + d.NumRows - detector.IRBorder - 1,
		Full: true,
	}
}

var (
	mappersMu sync.RWMutex
	mappers   = map[detector.Kind]CornerMapper{
		detector.UVIS: uvisMapper{},
		detector.IR:   irMapper{},
	}
)

// Register installs the CornerMapper for a detector kind, replacing any existing one
func Register(k detector.Kind, m CornerMapper) {
	mappersMu.Lock()
	defer mappersMu.Unlock()
	mappers[k] = m
}

// Mapper returns the CornerMapper registered for k
func Mapper(k detector.Kind) (CornerMapper, bool) {
	mappersMu.RLock()
	defer mappersMu.RUnlock()
	m, ok := mappers[k]
	return m, ok
}
