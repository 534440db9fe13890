// Package testfits writes small synthetic WFC3 products for tests
package testfits

import (
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/nasa-jpl/subframe/detector"
	"github.com/nasa-jpl/subframe/product"
	"gonum.org/v1/gonum/mat"
)

// SPTCards writes <dir>/<root>_spt.fits with the given primary and first extension cards
func SPTCards(t testing.TB, dir, root string, primary, ext []fitsio.Card) string {
	t.Helper()
	p := &product.Product{HDUs: []*product.HDU{
		{Name: "PRIMARY", Ver: 1, Bitpix: 16, Cards: primary},
		{Name: "UDL", Ver: 1, Bitpix: 16, Cards: append([]fitsio.Card{{Name: "EXTNAME", Value: "UDL"}}, ext...)},
	}}
	path := filepath.Join(dir, root+"_spt.fits")
	if err := product.Write(path, p); err != nil {
		t.Fatal(err)
	}
	return path
}

// SPT writes a well formed companion file
func SPT(t testing.TB, dir, root, det, subarray string, x, y, rows, cols int) string {
	t.Helper()
	return SPTCards(t, dir, root,
		[]fitsio.Card{
			{Name: "SS_DTCTR", Value: det},
			{Name: "SS_SUBAR", Value: subarray},
		},
		[]fitsio.Card{
			{Name: "XCORNER", Value: x},
			{Name: "YCORNER", Value: y},
			{Name: "NUMROWS", Value: rows},
			{Name: "NUMCOLS", Value: cols},
		})
}

// Plane returns a rows x cols matrix whose pixel (r, c) holds base + r*cols + c
func Plane(rows, cols int, base float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = base + float64(i)
	}
	return mat.NewDense(rows, cols, data)
}

func bitpix(ext string) int {
	switch ext {
	case detector.DQ, detector.SAMP:
		return 16
	}
	return -32
}

// FLT builds a calibrated subarray product of the given detector and data
// shape.  SCI and ERR carry WCS cards, DQ carries none.
func FLT(kind detector.Kind, rows, cols int) *product.Product {
	p := &product.Product{HDUs: []*product.HDU{{
		Name: "PRIMARY", Ver: 1, Bitpix: 16,
		Cards: []fitsio.Card{
			{Name: "DETECTOR", Value: kind.String()},
			{Name: "SUBARRAY", Value: true},
		},
	}}}
	for i, ext := range detector.Extensions(kind) {
		cards := []fitsio.Card{
			{Name: "EXTNAME", Value: ext},
			{Name: "EXTVER", Value: 1},
		}
		if ext == detector.SCI || ext == detector.ERR {
			cards = append(cards,
				fitsio.Card{Name: "CRPIX1", Value: 10.5},
				fitsio.Card{Name: "CRPIX2", Value: 20.5},
				fitsio.Card{Name: "LTV1", Value: -30.0},
				fitsio.Card{Name: "LTV2", Value: -40.0},
				fitsio.Card{Name: "SIZAXIS1", Value: cols},
				fitsio.Card{Name: "SIZAXIS2", Value: rows},
			)
		}
		p.HDUs = append(p.HDUs, &product.HDU{
			Name: ext, Ver: 1, Bitpix: bitpix(ext), Cards: cards,
			Data: Plane(rows, cols, float64(1000*(i+1))),
		})
	}
	return p
}

// WriteFLT writes FLT(kind, rows, cols) to <dir>/<root>_flt.fits
func WriteFLT(t testing.TB, dir, root string, kind detector.Kind, rows, cols int) string {
	t.Helper()
	path := filepath.Join(dir, root+"_flt.fits")
	if err := product.Write(path, FLT(kind, rows, cols)); err != nil {
		t.Fatal(err)
	}
	return path
}

// WCSCorr builds a WCSCORR binary table with one row per reference pixel
func WCSCorr(t testing.TB, crpix ...float64) *product.HDU {
	t.Helper()
	tbl, err := fitsio.NewTable("WCSCORR", []fitsio.Column{
		{Name: "WCS_ID", Format: "J"},
		{Name: "CRPIX1", Format: "D"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range crpix {
		id, v := int32(i+1), v
		if err := tbl.Write(&id, &v); err != nil {
			t.Fatal(err)
		}
	}
	return &product.HDU{
		Name: "WCSCORR", Ver: 1, Bitpix: 8,
		Cards: []fitsio.Card{
			{Name: "EXTNAME", Value: "WCSCORR"},
			{Name: "DESCRIP", Value: "WCS history"},
		},
		Table: tbl,
	}
}

// WCSCorrRows reads back the rows of a table built by WCSCorr
func WCSCorrRows(t testing.TB, h *product.HDU) []float64 {
	t.Helper()
	if h == nil || h.Table == nil {
		t.Fatal("no WCSCORR table")
	}
	rows, err := h.Table.Read(0, h.Table.NumRows())
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	var out []float64
	for rows.Next() {
		var (
			id    int32
			crpix float64
		)
		if err := rows.Scan(&id, &crpix); err != nil {
			t.Fatal(err)
		}
		out = append(out, crpix)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}
