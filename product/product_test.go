package product_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/google/go-cmp/cmp"
	"github.com/nasa-jpl/subframe/internal/testfits"
	"github.com/nasa-jpl/subframe/product"
	"gonum.org/v1/gonum/mat"
)

func sample() *product.Product {
	return &product.Product{HDUs: []*product.HDU{
		{Name: "PRIMARY", Ver: 1, Bitpix: 16, Cards: []fitsio.Card{
			{Name: "DETECTOR", Value: "IR"},
			{Name: "SUBARRAY", Value: true},
		}},
		{Name: "SCI", Ver: 1, Bitpix: -32, Cards: []fitsio.Card{
			{Name: "EXTNAME", Value: "SCI"},
			{Name: "EXTVER", Value: 1},
			{Name: "CRPIX1", Value: 10.5},
		}, Data: mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6.5})},
		{Name: "DQ", Ver: 1, Bitpix: 16, Cards: []fitsio.Card{
			{Name: "EXTNAME", Value: "DQ"},
			{Name: "EXTVER", Value: 1},
		}, Data: mat.NewDense(2, 3, []float64{0, 4, 16, -1, 512, 8192})},
	}}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_flt.fits")
	in := sample()
	if err := product.Write(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := product.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.HDUs) != 3 {
		t.Fatalf("expected 3 HDUs, got %d", len(out.HDUs))
	}
	if det, _ := out.Primary().Text("DETECTOR"); det != "IR" {
		t.Errorf("expected DETECTOR=IR, got %q", det)
	}
	for _, name := range []string{"SCI", "DQ"} {
		want := in.Extension(name, 1)
		got := out.Extension(name, 1)
		if got == nil {
			t.Fatalf("%s missing after round trip", name)
		}
		if got.Bitpix != want.Bitpix {
			t.Errorf("%s: expected BITPIX %d, got %d", name, want.Bitpix, got.Bitpix)
		}
		if !mat.Equal(want.Data, got.Data) {
			t.Errorf("%s: pixels differ\nwant %v\ngot  %v", name, mat.Formatted(want.Data), mat.Formatted(got.Data))
		}
	}
	if crpix, err := out.Extension("SCI", 0).Float("CRPIX1"); err != nil || crpix != 10.5 {
		t.Errorf("expected CRPIX1=10.5, got %v (%v)", crpix, err)
	}
}

func TestReadHeadersSkipsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_spt.fits")
	if err := product.Write(path, sample()); err != nil {
		t.Fatal(err)
	}
	p, err := product.ReadHeaders(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range p.HDUs {
		if h.Data != nil {
			t.Errorf("%s: expected no data", h.Name)
		}
	}
	if !p.Extension("DQ", 0).Has("EXTVER") {
		t.Error("expected headers to be read")
	}
}

func TestWriteRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x_flt.fits")
	if err := product.Write(path, sample()); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	other := sample()
	other.Extension("SCI", 1).Data.Set(0, 0, 99)
	err = product.Write(path, other)
	if !errors.Is(err, product.ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("existing file was modified")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the first write to remain, found %d entries", len(entries))
	}
}

func TestHeaderAccessors(t *testing.T) {
	h := sample().Extension("SCI", 0)
	h.Set("CRPIX1", 12.0)
	h.Set("LTV1", 0.0)
	if v, _ := h.Float("CRPIX1"); v != 12 {
		t.Errorf("expected CRPIX1=12, got %v", v)
	}
	if !h.Has("LTV1") {
		t.Error("expected Set to append a missing card")
	}
	if _, err := h.Float("CRPIX2"); err == nil {
		t.Error("expected an error for a missing keyword")
	}
	if v, err := h.Int("EXTVER"); err != nil || v != 1 {
		t.Errorf("expected EXTVER=1, got %v (%v)", v, err)
	}
	cp := h.Clone()
	cp.Set("CRPIX1", 1.0)
	if v, _ := h.Float("CRPIX1"); v != 12 {
		t.Error("Clone must not share cards")
	}
}

func TestTablesAreCarried(t *testing.T) {
	dir := t.TempDir()
	in := sample()
	in.HDUs = append(in.HDUs, testfits.WCSCorr(t, 10.5, 105.5))

	// a decoded table must survive being written again
	path := filepath.Join(dir, "a_flt.fits")
	for _, next := range []string{"b_flt.fits", "c_flt.fits"} {
		if err := product.Write(path, in); err != nil {
			t.Fatal(err)
		}
		out, err := product.Read(path)
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for _, h := range out.HDUs {
			names = append(names, h.Name)
		}
		if diff := cmp.Diff([]string{"PRIMARY", "SCI", "DQ", "WCSCORR"}, names); diff != "" {
			t.Fatalf("HDU mismatch (-want +got):\n%s", diff)
		}
		tbl := out.Extension("WCSCORR", 0)
		if diff := cmp.Diff([]float64{10.5, 105.5}, testfits.WCSCorrRows(t, tbl)); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
		if s, _ := tbl.Text("DESCRIP"); s != "WCS history" {
			t.Errorf("expected DESCRIP to be kept, got %q", s)
		}
		in, path = out, filepath.Join(dir, next)
	}
}

func TestCommentaryCardsDoNotHideKeywords(t *testing.T) {
	p := sample()
	sci := p.Extension("SCI", 1)
	sci.Cards = []fitsio.Card{
		{Name: "EXTNAME", Value: "SCI"},
		{Name: "HISTORY", Comment: "first"},
		{Name: "HISTORY", Comment: "second"},
		{Name: "EXTVER", Value: 1},
		{Name: "CRPIX1", Value: 10.5},
		{Name: "CRPIX2", Value: 20.5},
	}
	path := filepath.Join(t.TempDir(), "x_flt.fits")
	if err := product.Write(path, p); err != nil {
		t.Fatal(err)
	}
	out, err := product.ReadHeaders(path)
	if err != nil {
		t.Fatal(err)
	}
	h := out.Extension("SCI", 1)
	if v, err := h.Float("CRPIX2"); err != nil || v != 20.5 {
		t.Errorf("expected CRPIX2=20.5 after the HISTORY cards, got %v (%v)", v, err)
	}
	var history []string
	for _, c := range h.Cards {
		if c.Name == "HISTORY" {
			history = append(history, c.Comment)
		}
	}
	if diff := cmp.Diff([]string{"first", "second"}, history); diff != "" {
		t.Errorf("HISTORY mismatch (-want +got):\n%s", diff)
	}
}
