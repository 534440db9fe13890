package main

import (
	"testing"

	"github.com/nasa-jpl/subframe/sub2full"
)

func TestFormatTuple(t *testing.T) {
	if s := formatTuple(sub2full.Mapping{X0: 3584, Y0: 1539}); s != "(3584, 1539)" {
		t.Errorf("expected (3584, 1539), got %s", s)
	}
	full := sub2full.Mapping{X0: 3584, X1: 4096, Y0: 1539, Y1: 2050, Full: true}
	if s := formatTuple(full); s != "(3584, 4096, 1539, 2050)" {
		t.Errorf("expected (3584, 4096, 1539, 2050), got %s", s)
	}
}
