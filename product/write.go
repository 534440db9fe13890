package product

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"
	"github.com/google/renameio"
)

// ErrDestinationExists is returned by Write when the output path is taken
var ErrDestinationExists = errors.New("destination already exists")

// Encode streams a product to w as a FITS file
func Encode(w io.Writer, p *Product) error {
	if len(p.HDUs) == 0 {
		return errors.New("product has no HDUs")
	}
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	for _, h := range p.HDUs {
		encode := encodeHDU
		if h.Table != nil {
			encode = encodeTable
		}
		if err := encode(fits, h); err != nil {
			return fmt.Errorf("[%s,%d]: %w", h.Name, h.Ver, err)
		}
	}
	return nil
}

func encodeHDU(fits *fitsio.File, h *HDU) error {
	var dims []int
	if h.Data != nil {
		rows, cols := h.Data.Dims()
		dims = []int{cols, rows}
	}
	im := fitsio.NewImage(h.Bitpix, dims)
	defer im.Close()

	cards := make([]fitsio.Card, 0, len(h.Cards))
	for _, c := range h.Cards {
		if !structural(c.Name) {
			cards = append(cards, c)
		}
	}
	err := im.Header().Append(cards...)
	if err != nil {
		return err
	}
	if h.Data != nil {
		buf, err := planeData(h.Data, h.Bitpix)
		if err != nil {
			return err
		}
		err = im.Write(buf)
		if err != nil {
			return err
		}
	}
	return fits.Write(im)
}

// encodeTable writes a table HDU as a fresh table holding the rows of h.Table.
// Decoded headers keep their END card, which the encoder would repeat.
func encodeTable(fits *fitsio.File, h *HDU) error {
	src := h.Table
	name, _ := h.Text("EXTNAME")
	dst, err := fitsio.NewTable(name, src.Cols(), src.Type())
	if err != nil {
		return err
	}
	defer dst.Close()

	hdr := dst.Header()
	for _, c := range h.Cards {
		switch {
		case structural(c.Name) || c.Name == "THEAP":
		case commentary(c.Name) || hdr.Get(c.Name) == nil:
			err = hdr.Append(c)
			if err != nil {
				return err
			}
		default:
			hdr.Set(c.Name, c.Value, c.Comment)
		}
	}
	err = fitsio.CopyTable(dst, src)
	if err != nil {
		return err
	}
	return fits.Write(dst)
}

// Write writes p to path.  It never overwrites: if path exists, the error wraps
// ErrDestinationExists and nothing is written.  The file is encoded to a
// temporary file in the same directory and only linked into place once complete.
func Write(path string, p *Product) error {
	_, err := os.Lstat(path)
	if err == nil {
		return fmt.Errorf("%s: %w", path, ErrDestinationExists)
	}
	if !os.IsNotExist(err) {
		return err
	}

	pf, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	err = Encode(pf, p)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	err = pf.Chmod(0644)
	if err != nil {
		return err
	}
	err = pf.Sync()
	if err != nil {
		return err
	}
	// link, unlike rename, refuses to replace a file that appeared since the check
	err = os.Link(pf.Name(), path)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", path, ErrDestinationExists)
		}
		return err
	}
	return nil
}
