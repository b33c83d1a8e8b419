// Package cachefile allocates output files for derived images.
//
// Every derived image gets a fresh file in the cache directory named
// <stem>_<tag><uuid>.jpg, where stem is the source file name without its
// extension and tag identifies the operation ("compressed" or "cropped").
// Names never collide, so concurrent operations on the same source never
// overwrite each other's output.
package cachefile
