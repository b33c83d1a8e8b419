package metadata

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Report describes the outcome of a metadata copy. It is advisory: a non-nil
// Err never means the image operation that triggered the copy failed.
type Report struct {
	// Copied lists the attribute names written to the destination.
	Copied []string

	// Err is the reason the copy failed, if it did.
	Err error
}

// OK reports whether the copy completed without error.
func (r Report) OK() bool {
	return r.Err == nil
}

// Copier propagates allowlisted attributes from a source image to a derived
// image on a best-effort basis.
type Copier struct {
	store Store
}

// NewCopier creates a Copier backed by store.
func NewCopier(store Store) *Copier {
	return &Copier{store: store}
}

// Copy reads the allowlisted attributes of src and writes those present to
// dst. Attributes absent on src are not written, so they stay absent on dst.
//
// Failures are logged through the logger carried by ctx and returned in the
// Report; Copy never panics on a bad file and never returns an error.
func (c *Copier) Copy(ctx context.Context, src, dst string) Report {
	l := zerolog.Ctx(ctx).With().Str("source", src).Str("destination", dst).Logger()

	set, err := c.store.ReadAttributes(src)
	if err != nil {
		err = fmt.Errorf("read source metadata: %w", err)
		l.Warn().Err(err).Msg("error preserving metadata")
		return Report{Err: err}
	}

	if len(set) == 0 {
		l.Debug().Msg("source has no metadata to preserve")
		return Report{}
	}

	if err := c.store.WriteAttributes(dst, set); err != nil {
		err = fmt.Errorf("write destination metadata: %w", err)
		l.Warn().Err(err).Msg("error preserving metadata")
		return Report{Err: err}
	}

	l.Debug().Strs("attributes", set.Names()).Msg("preserved metadata")
	return Report{Copied: set.Names()}
}
