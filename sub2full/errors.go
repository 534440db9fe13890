package sub2full

import (
	"errors"
	"fmt"

	"github.com/nasa-jpl/subframe/naming"
)

var (
	// ErrInvalidInput is returned when a filename can not be resolved to any file
	ErrInvalidInput = naming.ErrInvalidInput

	// ErrMissingMetadata is returned when a required geometry keyword is absent,
	// or the companion file holding it can not be opened
	ErrMissingMetadata = errors.New("required header keyword missing")

	// ErrNotSubarray is returned when the metadata says the image is full frame
	ErrNotSubarray = errors.New("image is not a subarray")

	// ErrInvalidCoordinate is returned when a point to translate is not a pair of integers
	ErrInvalidCoordinate = errors.New("must input integer value for x and y")

	// ErrInvalidGeometry is returned when a subarray is larger than its detector
	ErrInvalidGeometry = errors.New("subarray does not fit on the detector")

	// ErrUnknownDetector is returned when no CornerMapper is registered for a detector
	ErrUnknownDetector = errors.New("no corner mapping for detector")
)

// FileError ties an error to the file (or descriptor) and header keyword that caused it
type FileError struct {
	// File is the filename or descriptor name
	File string

	// Field is the header keyword involved, if any
	Field string

	// Err is the underlying error, usually one of the sentinels in this package
	Err error
}

func (e *FileError) Error() string {
	switch {
	case e.File != "" && e.Field != "":
		return fmt.Sprintf("%s: %v; %s", e.File, e.Err, e.Field)
	case e.File != "":
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%v; %s", e.Err, e.Field)
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to see the underlying error
func (e *FileError) Unwrap() error {
	return e.Err
}

// withFile stamps a file name onto err, keeping any Field already present
func withFile(err error, file string) error {
	var fe *FileError
	if errors.As(err, &fe) {
		if fe.File == "" {
			cp := *fe
			cp.File = file
			return &cp
		}
		return err
	}
	return &FileError{File: file, Err: err}
}
