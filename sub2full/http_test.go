package sub2full_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/go-cmp/cmp"
	"github.com/nasa-jpl/subframe/generichttp"
	"github.com/nasa-jpl/subframe/internal/testfits"
	"github.com/nasa-jpl/subframe/sub2full"
)

func TestHTTPResolve(t *testing.T) {
	dir := t.TempDir()
	testfits.SPT(t, dir, "ibbso1fdq", "UVIS", "YES", 1, 3608, 512, 513)
	touch(t, dir, "ibbso1fdq_flt.fits")
	testfits.SPT(t, dir, "ifull001q", "UVIS", "NO", 0, 0, 2051, 4096)
	touch(t, dir, "ifull001q_flt.fits")
	testfits.SPT(t, dir, "iwide01aq", "UVIS", "YES", 0, 0, 100, 4200)
	touch(t, dir, "iwide01aq_flt.fits")

	table := generichttp.RouteTable{}
	sub2full.HTTPResolve(table, dir)
	r := chi.NewRouter()
	table.Bind(r)

	tests := []struct {
		query  string
		status int
		coords [][]int
	}{
		{"file=ibbso1fdq_flt.fits", http.StatusOK, [][]int{{3584, 1539}}},
		{"file=ibbso1fdq_flt.fits&full=true", http.StatusOK, [][]int{{3584, 4096, 1539, 2050}}},
		{"file=ibbso1fdq_flt.fits&x=1&y=1&full=true", http.StatusOK, [][]int{{3585, 1540}}},
		{"file=ibbso1fdq_flt.fits&file=ibbso1fdq_flt.fits", http.StatusOK, [][]int{{3584, 1539}, {3584, 1539}}},
		{"file=ibbso1fdq_flt.fits&x=(1,2)&y=(1,2)", http.StatusBadRequest, nil},
		{"file=ibbso1fdq_flt.fits&x=1", http.StatusBadRequest, nil},
		{"file=test", http.StatusBadRequest, nil},
		{"file=../../etc/passwd", http.StatusBadRequest, nil},
		{"file=ifull001q_flt.fits", http.StatusUnprocessableEntity, nil},
		{"file=iwide01aq_flt.fits&full=true", http.StatusUnprocessableEntity, nil},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sub2full?"+tt.query, nil))
		if rec.Code != tt.status {
			t.Errorf("%s: expected status %d, got %d (%s)", tt.query, tt.status, rec.Code, rec.Body.String())
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}
		var got sub2full.CoordsT
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.coords, got.Coords); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}
