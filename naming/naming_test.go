package naming_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nasa-jpl/subframe/naming"
)

func ExampleFullFrame() {
	out, _ := naming.FullFrame("ibbso1fdq_flt.fits")
	fmt.Println(out)
	// Output: ibbso1fdf_flt.fits
}

func ExampleCompanion() {
	fmt.Println(naming.Companion(filepath.Join("data", "ibbso1fdq_flt.fits")))
	// Output: data/ibbso1fdq_spt.fits
}

func TestRootAndSuffix(t *testing.T) {
	tests := []struct {
		in, root, suffix string
	}{
		{"ibbso1fdq_flt.fits", "ibbso1fdq", "flt"},
		{"/a/b/ic5p02e2q_flc.fits", "ic5p02e2q", "flc"},
		{"ic5p02e2q_spt.fits", "ic5p02e2q", "spt"},
		{"plain.fits", "plain", ""},
	}
	for _, tt := range tests {
		if got := naming.Root(tt.in); got != tt.root {
			t.Errorf("Root(%q) = %q, want %q", tt.in, got, tt.root)
		}
		if got := naming.Suffix(tt.in); got != tt.suffix {
			t.Errorf("Suffix(%q) = %q, want %q", tt.in, got, tt.suffix)
		}
	}
}

func TestFullFrameRejectsUnconventionalNames(t *testing.T) {
	for _, n := range []string{"image.fits", "ibbso1fdq_raw.fits", "ibbso1fdq_spt.fits"} {
		if naming.IsEmbeddable(n) {
			t.Errorf("%s should not be embeddable", n)
		}
		if _, err := naming.FullFrame(n); err == nil {
			t.Errorf("expected FullFrame(%q) to fail", n)
		}
	}
	out, err := naming.FullFrame("/x/ic5p02e2q_flc.fits")
	if err != nil {
		t.Fatal(err)
	}
	if out != "/x/ic5p02e2f_flc.fits" {
		t.Errorf("expected /x/ic5p02e2f_flc.fits, got %s", out)
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a_flt.fits", "b_flt.fits", "c_raw.fits", "d_flc.fits"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	list := filepath.Join(dir, "input.lst")
	content := "# inputs\n" + filepath.Join(dir, "c_raw.fits") + "\n\n" + filepath.Join(dir, "a_flt.fits") + "\n"
	if err := os.WriteFile(list, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := naming.Expand(filepath.Join(dir, "*_flt.fits"), "@"+list, filepath.Join(dir, "d_flc.fits"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a_flt.fits"),
		filepath.Join(dir, "b_flt.fits"),
		filepath.Join(dir, "c_raw.fits"),
		filepath.Join(dir, "a_flt.fits"),
		filepath.Join(dir, "d_flc.fits"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandNothing(t *testing.T) {
	_, err := naming.Expand(filepath.Join(t.TempDir(), "*.fits"))
	if !errors.Is(err, naming.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	_, err = naming.Expand("@" + filepath.Join(t.TempDir(), "missing.lst"))
	if !errors.Is(err, naming.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a missing list, got %v", err)
	}
	_, err = naming.Expand("test")
	if !errors.Is(err, naming.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a missing file, got %v", err)
	}
}
