package product

import (
	"fmt"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/mat"
)

type pixel interface {
	~uint8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// readAs reads the image as []T and widens it to float64
func readAs[T pixel](img fitsio.Image, dst []float64) error {
	buf := make([]T, len(dst))
	if err := img.Read(&buf); err != nil {
		return err
	}
	for i, v := range buf {
		dst[i] = float64(v)
	}
	return nil
}

// narrow converts a row-major matrix to []T
func narrow[T pixel](m *mat.Dense) []T {
	raw := m.RawMatrix()
	out := make([]T, 0, raw.Rows*raw.Cols)
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for _, v := range row {
			out = append(out, T(v))
		}
	}
	return out
}

func readPlane(img fitsio.Image, bitpix, rows, cols int) (*mat.Dense, error) {
	if rows == 0 || cols == 0 {
		return nil, nil
	}
	data := make([]float64, rows*cols)
	var err error
	switch bitpix {
	case 8:
		err = readAs[uint8](img, data)
	case 16:
		err = readAs[int16](img, data)
	case 32:
		err = readAs[int32](img, data)
	case 64:
		err = readAs[int64](img, data)
	case -32:
		err = readAs[float32](img, data)
	case -64:
		err = readAs[float64](img, data)
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
	if err != nil {
		return nil, err
	}
	return mat.NewDense(rows, cols, data), nil
}

// planeData converts m to a slice of the Go type matching bitpix
func planeData(m *mat.Dense, bitpix int) (interface{}, error) {
	switch bitpix {
	case 8:
		return narrow[uint8](m), nil
	case 16:
		return narrow[int16](m), nil
	case 32:
		return narrow[int32](m), nil
	case 64:
		return narrow[int64](m), nil
	case -32:
		return narrow[float32](m), nil
	case -64:
		return narrow[float64](m), nil
	}
	return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
}
