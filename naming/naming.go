// Package naming implements the HST file naming conventions used to find the
// companion of an exposure and to name its full frame product.
//
// HST products are named <rootname>_<suffix>.fits, where rootname is the nine
// character ipppssoot of the exposure and suffix names the product (raw, flt,
// flc, spt, ...).
package naming

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidInput is returned when a name can not be resolved to any file
var ErrInvalidInput = errors.New("please input a valid HST filename")

// CompanionSuffix is the suffix of the support file holding subarray geometry
const CompanionSuffix = "spt"

// embeddable are the suffixes of calibrated products that can be embedded
var embeddable = []string{"_flt", "_flc"}

// Root returns the rootname of an HST filename, the part of the base name
// before the first underscore.  Names without one return the base name less
// its extension.
func Root(name string) string {
	base := filepath.Base(name)
	if i := strings.IndexByte(base, '_'); i >= 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Suffix returns the product suffix of an HST filename, e.g. "flt", or "" if there is none
func Suffix(name string) string {
	base := filepath.Base(name)
	i := strings.IndexByte(base, '_')
	if i < 0 {
		return ""
	}
	rest := base[i+1:]
	if j := strings.IndexByte(rest, '.'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// Companion returns the path of the SPT file that accompanies name
func Companion(name string) string {
	return filepath.Join(filepath.Dir(name), Root(name)+"_"+CompanionSuffix+".fits")
}

// IsEmbeddable reports if name follows the naming convention of a calibrated
// product that can be embedded into a full frame
func IsEmbeddable(name string) bool {
	base := filepath.Base(name)
	for _, s := range embeddable {
		if strings.Contains(base, s) {
			return true
		}
	}
	return false
}

// FullFrame returns the output name for the full frame version of name.  The last
// character of the rootname is replaced with 'f', so ibbso1fdq_flt.fits becomes
// ibbso1fdf_flt.fits, in the same directory.
func FullFrame(name string) (string, error) {
	if !IsEmbeddable(name) {
		return "", fmt.Errorf("%s: can't properly parse name, expected an _flt or _flc product", name)
	}
	root := Root(name)
	if root == "" {
		return "", fmt.Errorf("%s: empty rootname", name)
	}
	out := root[:len(root)-1] + "f_" + Suffix(name) + ".fits"
	return filepath.Join(filepath.Dir(name), out), nil
}

// Expand turns a list of names into a list of files.  Each name may be an
// existing file, a shell glob, or @listfile, where listfile holds one name per line; blank
// lines and lines beginning with # are ignored.  Order is preserved.  If the
// result is empty, the error wraps ErrInvalidInput.
func Expand(names ...string) ([]string, error) {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if strings.HasPrefix(n, "@") {
			listed, err := readList(n[1:])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n, ErrInvalidInput)
			}
			expanded, err := Expand(listed...)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			continue
		}
		if strings.ContainsAny(n, "*?[") {
			matches, err := filepath.Glob(n)
			if err != nil {
				return nil, fmt.Errorf("%s: %v: %w", n, err, ErrInvalidInput)
			}
			out = append(out, matches...)
			continue
		}
		if _, err := os.Stat(n); err != nil {
			return nil, fmt.Errorf("%s: %w", n, ErrInvalidInput)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%q: %w", names, ErrInvalidInput)
	}
	return out, nil
}

func readList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var names []string
	scn := bufio.NewScanner(f)
	for scn.Scan() {
		line := strings.TrimSpace(scn.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scn.Err()
}
