package sub2full

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/nasa-jpl/subframe/generichttp"
)

// HTTPStatus maps errors from this package to HTTP status codes
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingMetadata):
		return http.StatusNotFound
	case errors.Is(err, ErrNotSubarray), errors.Is(err, ErrUnknownDetector), errors.Is(err, ErrInvalidGeometry):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// InRoot joins name onto root without letting it climb above root
func InRoot(root, name string) string {
	return filepath.Join(root, filepath.Clean("/"+name))
}

// CoordsT is the reply of the sub2full route
type CoordsT struct {
	Coords [][]int `json:"coords"`
}

// HTTPResolve adds GET /sub2full to table.  Files are named by one or more
// file query parameters, relative to root; x and y translate a point and
// full=true requests the full extent.
func HTTPResolve(table generichttp.RouteTable, root string) {
	table[generichttp.MethodPath{Method: http.MethodGet, Path: "/sub2full"}] = ResolveHandler(root)
}

// ResolveHandler returns the handler behind HTTPResolve
func ResolveHandler(root string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := Options{}
		if q.Has("x") || q.Has("y") {
			p, err := ParsePoint(q.Get("x"), q.Get("y"))
			if err != nil {
				generichttp.ReplyError(w, HTTPStatus(err), err)
				return
			}
			opts.Point = &p
		}
		if full := q.Get("full"); full != "" {
			b, err := strconv.ParseBool(full)
			if err != nil {
				generichttp.ReplyError(w, http.StatusBadRequest, err)
				return
			}
			opts.FullExtent = b
		}
		files := q["file"]
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = InRoot(root, f)
		}
		ms, err := ResolveFiles(names, opts)
		if err != nil {
			generichttp.ReplyError(w, HTTPStatus(err), err)
			return
		}
		out := CoordsT{Coords: make([][]int, len(ms))}
		for i, m := range ms {
			out.Coords[i] = m.Tuple()
		}
		generichttp.Reply(w, http.StatusOK, out)
	}
}
