// Package service implements the image operations: compress, crop and
// properties.
//
// Each operation works on a decoded copy of the source image that it owns for
// the duration of the call; nothing is shared between calls. Derived images
// are written as new files in the cache directory and never replace the
// source. Camera metadata is copied from the source to the derived file on a
// best-effort basis: a failed copy is logged and does not fail the operation.
//
// # Errors
//
// Every failure is returned as a *Error carrying a Kind and the source path.
// The Kind maps to a stable code string (see Kind.Code) that the call surface
// reports to clients:
//
//	FileNotFound      "file does not exist"
//	IOFailure         "something went wrong"
//	InvalidBounds     "bounds are outside of the dimensions of the source image"
//	ResamplerFailure  "invalid resize dimensions"
//	InvalidArgument   "invalid argument"
package service
