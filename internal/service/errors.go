package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures.
type Kind int

const (
	// IOFailure covers decode, encode and write failures. It is also the
	// kind reported for errors that did not originate in this package.
	IOFailure Kind = iota
	FileNotFound
	InvalidBounds
	ResamplerFailure
	InvalidArgument
)

var kindCodes = map[Kind]string{
	IOFailure:        "something went wrong",
	FileNotFound:     "file does not exist",
	InvalidBounds:    "bounds are outside of the dimensions of the source image",
	ResamplerFailure: "invalid resize dimensions",
	InvalidArgument:  "invalid argument",
}

// Code returns the machine-readable code reported to clients.
func (k Kind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return kindCodes[IOFailure]
}

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case InvalidBounds:
		return "InvalidBounds"
	case ResamplerFailure:
		return "ResamplerFailure"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "IOFailure"
	}
}

// Error is a failed image operation.
type Error struct {
	Kind Kind

	// Path is the source image the operation was called with.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the machine-readable code of the error's Kind.
func (e *Error) Code() string {
	return e.Kind.Code()
}

// KindOf returns the Kind of err, or IOFailure when err is not (and does not
// wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return IOFailure
}
