package sub2full

import (
	"strings"

	"github.com/nasa-jpl/subframe/detector"
	"github.com/nasa-jpl/subframe/naming"
	"github.com/nasa-jpl/subframe/product"
)

// ReadDescriptor builds the Descriptor of an exposure from its SPT companion.
// The detector and subarray flag come from the primary header, the corner and
// size from the first extension.
func ReadDescriptor(name string) (Descriptor, error) {
	d := Descriptor{Name: name}
	spt := naming.Companion(name)
	p, err := product.ReadHeaders(spt)
	if err != nil {
		return d, &FileError{File: name, Field: spt + ": " + err.Error(), Err: ErrMissingMetadata}
	}
	missing := func(key string) error {
		return &FileError{File: name, Field: key, Err: ErrMissingMetadata}
	}

	pri := p.Primary()
	if pri == nil {
		return d, missing(KeyDetector)
	}
	det, err := pri.Text(KeyDetector)
	if err != nil {
		return d, missing(KeyDetector)
	}
	d.Kind, err = detector.ParseKind(det)
	if err != nil {
		return d, &FileError{File: name, Field: KeyDetector + "=" + det, Err: ErrUnknownDetector}
	}
	c, ok := pri.Card(KeySubarray)
	if !ok {
		return d, missing(KeySubarray)
	}
	d.Subarray = subarrayFlag(c.Value)

	if len(p.HDUs) < 2 {
		return d, missing(KeyXCorner)
	}
	ext := p.HDUs[1]
	for _, f := range []struct {
		key string
		dst *int
	}{
		{KeyXCorner, &d.XCorner},
		{KeyYCorner, &d.YCorner},
		{KeyNumRows, &d.NumRows},
		{KeyNumCols, &d.NumCols},
	} {
		v, err := ext.Int(f.key)
		if err != nil {
			return d, missing(f.key)
		}
		*f.dst = v
	}
	return d, nil
}

// subarrayFlag interprets SS_SUBAR, which is "YES"/"NO" in SPT files but a
// logical in other headers
func subarrayFlag(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return !strings.Contains(strings.ToUpper(t), "NO")
	}
	return false
}
