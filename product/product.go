// Package product reads and writes multi-extension FITS image products.
//
// A Product is held fully in memory: every image HDU carries its header cards
// and, for two dimensional images, its pixels as a gonum matrix with one row per
// image row.  Table HDUs are carried as decoded and written back unchanged.
package product

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/mat"
)

// HDU is one header-data unit
type HDU struct {
	// Name is the EXTNAME, or PRIMARY for the first HDU
	Name string

	// Ver is the EXTVER, 1 if absent
	Ver int

	// Bitpix is the FITS pixel type
	Bitpix int

	// Cards are the non-structural header cards, in file order
	Cards []fitsio.Card

	// Data holds the pixels, rows = NAXIS2, cols = NAXIS1.  It is nil for
	// header-only HDUs.
	Data *mat.Dense

	// Table is set for ASCII and binary table HDUs, which have no Data
	Table *fitsio.Table
}

// Product is an in-memory FITS file
type Product struct {
	// Path is where the product was read from, if anywhere
	Path string

	// HDUs are in file order, the primary first
	HDUs []*HDU
}

// Primary returns the primary HDU, or nil for an empty product
func (p *Product) Primary() *HDU {
	if len(p.HDUs) == 0 {
		return nil
	}
	return p.HDUs[0]
}

// Extension returns the HDU with EXTNAME name and EXTVER ver.
// ver <= 0 matches the first HDU with that name.
func (p *Product) Extension(name string, ver int) *HDU {
	for _, h := range p.HDUs {
		if h.Name == name && (ver <= 0 || h.Ver == ver) {
			return h
		}
	}
	return nil
}

// Shape returns the (rows, cols) of the HDU's data, or (0, 0) if it has none
func (h *HDU) Shape() (rows, cols int) {
	if h.Data == nil {
		return 0, 0
	}
	return h.Data.Dims()
}

// Card returns the first card named name
func (h *HDU) Card(name string) (fitsio.Card, bool) {
	for _, c := range h.Cards {
		if c.Name == name {
			return c, true
		}
	}
	return fitsio.Card{}, false
}

// Has reports if the header carries a card named name
func (h *HDU) Has(name string) bool {
	_, ok := h.Card(name)
	return ok
}

// Set updates the value of the card named name, keeping its comment,
// or appends a new card if there is none
func (h *HDU) Set(name string, v interface{}) {
	for i := range h.Cards {
		if h.Cards[i].Name == name {
			h.Cards[i].Value = v
			return
		}
	}
	h.Cards = append(h.Cards, fitsio.Card{Name: name, Value: v})
}

// Float returns the value of a numeric card
func (h *HDU) Float(name string) (float64, error) {
	c, ok := h.Card(name)
	if !ok {
		return 0, fmt.Errorf("keyword %s not found", name)
	}
	f, ok := toFloat(c.Value)
	if !ok {
		return 0, fmt.Errorf("keyword %s has non-numeric value %v", name, c.Value)
	}
	return f, nil
}

// Int returns the value of a numeric card, truncated to an int
func (h *HDU) Int(name string) (int, error) {
	f, err := h.Float(name)
	return int(f), err
}

// Text returns the value of a card as a string with blanks trimmed
func (h *HDU) Text(name string) (string, error) {
	c, ok := h.Card(name)
	if !ok {
		return "", fmt.Errorf("keyword %s not found", name)
	}
	if s, ok := c.Value.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return fmt.Sprint(c.Value), nil
}

// Clone returns a copy of the HDU with its own cards.  Data and Table are shared.
func (h *HDU) Clone() *HDU {
	cp := *h
	cp.Cards = append([]fitsio.Card(nil), h.Cards...)
	return &cp
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case big.Int:
		f, _ := new(big.Float).SetInt(&t).Float64()
		return f, true
	case *big.Int:
		f, _ := new(big.Float).SetInt(t).Float64()
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// structural cards are produced by the encoder from Bitpix and the data shape
func structural(name string) bool {
	switch name {
	case "SIMPLE", "XTENSION", "BITPIX", "NAXIS", "EXTEND", "PCOUNT", "GCOUNT", "END":
		return true
	}
	if strings.HasPrefix(name, "NAXIS") {
		_, err := strconv.Atoi(name[len("NAXIS"):])
		return err == nil
	}
	return false
}

// commentary cards may repeat within one header
func commentary(name string) bool {
	return name == "" || name == "COMMENT" || name == "HISTORY"
}

// headerCards returns the cards of hdr in file order.  Keys leaves commentary
// cards out, so a decoded header is walked up to its END card.
func headerCards(hdr *fitsio.Header) []fitsio.Card {
	n := len(hdr.Keys())
	ended := hdr.Get("END") != nil
	var out []fitsio.Card
	for i, seen := 0, 0; ended || seen < n; i++ {
		c := hdr.Card(i)
		if c.Name == "END" {
			break
		}
		if !commentary(c.Name) {
			seen++
		}
		out = append(out, *c)
	}
	return out
}

// Read reads every HDU of the FITS file at path, pixels included
func Read(path string) (*Product, error) {
	return read(path, true)
}

// ReadHeaders reads the headers of every HDU of the FITS file at path.
// Image data is left nil.
func ReadHeaders(path string) (*Product, error) {
	return read(path, false)
}

func read(path string, withData bool) (*Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer fits.Close()

	p := &Product{Path: path}
	for i, hdu := range fits.HDUs() {
		hdr := hdu.Header()
		h := &HDU{Name: "PRIMARY", Ver: 1, Bitpix: hdr.Bitpix()}
		seen := make(map[string]bool)
		for _, c := range headerCards(hdr) {
			if structural(c.Name) {
				continue
			}
			if !commentary(c.Name) {
				if seen[c.Name] {
					continue
				}
				seen[c.Name] = true
			}
			h.Cards = append(h.Cards, c)
		}
		if i > 0 {
			name, _ := h.Text("EXTNAME")
			h.Name = strings.ToUpper(name)
		}
		if ver, err := h.Int("EXTVER"); err == nil {
			h.Ver = ver
		}

		switch hdu := hdu.(type) {
		case fitsio.Image:
			if !withData {
				break
			}
			axes := hdr.Axes()
			switch len(axes) {
			case 0:
			case 2:
				h.Data, err = readPlane(hdu, h.Bitpix, axes[1], axes[0])
				if err != nil {
					return nil, fmt.Errorf("%s[%s,%d]: %w", path, h.Name, h.Ver, err)
				}
			default:
				return nil, fmt.Errorf("%s[%s,%d]: %d dimensional images are not supported", path, h.Name, h.Ver, len(axes))
			}
		case *fitsio.Table:
			h.Table = hdu
		default:
			log.Printf("%s: HDU %d is a %v, it will not be carried\n", path, i, hdu.Type())
			continue
		}
		p.HDUs = append(p.HDUs, h)
	}
	return p, nil
}
