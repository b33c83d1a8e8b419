package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ironsheep/image-bridge/internal/cachefile"
	"github.com/ironsheep/image-bridge/internal/imaging"
	"github.com/ironsheep/image-bridge/internal/metadata"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CropQuality is the JPEG quality of cropped output.
const CropQuality = 100

// MetadataCopier copies camera metadata between two files.
type MetadataCopier interface {
	Copy(ctx context.Context, src, dst string) metadata.Report
}

// Options configures a Service.
type Options struct {
	// Allocator creates output files. Required.
	Allocator *cachefile.Allocator

	// Copier propagates metadata to derived images. Nil disables copying.
	Copier MetadataCopier

	// Orientation reads the orientation tag for Properties. Nil uses a
	// metadata.ExifReader.
	Orientation metadata.OrientationSource

	// ReduceColor quantizes compressed output to 16-bit RGB565.
	ReduceColor bool
}

// Service performs image operations. It holds no per-call state and is safe
// for concurrent use.
type Service struct {
	alloc       *cachefile.Allocator
	copier      MetadataCopier
	orientation metadata.OrientationSource
	reduceColor bool
}

// New creates a Service.
func New(opts Options) *Service {
	orientation := opts.Orientation
	if orientation == nil {
		orientation = metadata.NewExifReader()
	}
	return &Service{
		alloc:       opts.Allocator,
		copier:      opts.Copier,
		orientation: orientation,
		reduceColor: opts.ReduceColor,
	}
}

// Compress resizes the image at req.Path, re-encodes it as JPEG at
// req.Quality and writes it to the cache directory. It returns the path of
// the new file.
func (s *Service) Compress(ctx context.Context, req CompressRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l := logger(ctx, "compress", req.Path)

	if err := checkSource(req.Path); err != nil {
		return "", err
	}
	if req.Quality < 0 || req.Quality > imaging.MaxQuality {
		return "", newError(InvalidArgument, req.Path,
			fmt.Errorf("quality %d outside [0,%d]", req.Quality, imaging.MaxQuality))
	}

	img, err := imaging.Open(req.Path)
	if err != nil {
		return "", newError(IOFailure, req.Path, err)
	}

	b := img.Bounds()
	width, height := imaging.ResolveDimensions(b.Dx(), b.Dy(), req.Percentage, req.TargetWidth, req.TargetHeight)
	resized, err := imaging.Resize(img, width, height)
	if err != nil {
		return "", newError(ResamplerFailure, req.Path, err)
	}
	if s.reduceColor {
		resized = imaging.ReduceToRGB565(resized)
	}

	data, err := imaging.EncodeJPEG(resized, req.Quality)
	if err != nil {
		return "", newError(IOFailure, req.Path, err)
	}

	out, err := s.write(req.Path, cachefile.TagCompressed, data)
	if err != nil {
		return "", err
	}
	s.copyMetadata(ctx, l, req.Path, out)

	l.Info().
		Str("output", out).
		Int("width", width).
		Int("height", height).
		Int("quality", req.Quality).
		Msg("compressed image")
	return out, nil
}

// Crop extracts a rectangle from the image at req.Path and writes it to the
// cache directory as a JPEG at CropQuality. It returns the path of the new
// file. An invalid rectangle fails before any file is created.
func (s *Service) Crop(ctx context.Context, req CropRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l := logger(ctx, "crop", req.Path)

	if err := checkSource(req.Path); err != nil {
		return "", err
	}

	img, err := imaging.Open(req.Path)
	if err != nil {
		return "", newError(IOFailure, req.Path, err)
	}

	cropped, err := imaging.Crop(img, imaging.Region(req.OriginX, req.OriginY, req.Width, req.Height))
	if err != nil {
		return "", newError(InvalidBounds, req.Path, err)
	}

	data, err := imaging.EncodeJPEG(cropped, CropQuality)
	if err != nil {
		return "", newError(IOFailure, req.Path, err)
	}

	out, err := s.write(req.Path, cachefile.TagCropped, data)
	if err != nil {
		return "", err
	}
	s.copyMetadata(ctx, l, req.Path, out)

	l.Info().
		Str("output", out).
		Int("x", req.OriginX).
		Int("y", req.OriginY).
		Int("width", req.Width).
		Int("height", req.Height).
		Msg("cropped image")
	return out, nil
}

// Properties returns the stored dimensions and EXIF orientation of the image
// at path without decoding pixel data. Missing or unreadable metadata yields
// metadata.OrientationUndefined.
func (s *Service) Properties(ctx context.Context, path string) (Properties, error) {
	if err := ctx.Err(); err != nil {
		return Properties{}, err
	}
	l := logger(ctx, "properties", path)

	if err := checkSource(path); err != nil {
		return Properties{}, err
	}

	info, err := imaging.Probe(path)
	if err != nil {
		return Properties{}, newError(IOFailure, path, err)
	}

	props := Properties{
		Width:       info.Width,
		Height:      info.Height,
		Orientation: metadata.ReadOrientation(s.orientation, path),
	}
	l.Debug().
		Int("width", props.Width).
		Int("height", props.Height).
		Stringer("orientation", props.Orientation).
		Msg("read properties")
	return props, nil
}

// checkSource fails with FileNotFound when path does not exist, before any
// decoding is attempted.
func checkSource(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return newError(FileNotFound, path, nil)
	}
	return newError(IOFailure, path, err)
}

// write stores data in a new cache file named after src. A failed write
// leaves no file behind.
func (s *Service) write(src, tag string, data []byte) (string, error) {
	f, err := s.alloc.Create(cachefile.Stem(src), tag)
	if err != nil {
		return "", newError(IOFailure, src, err)
	}
	out := f.Name()

	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := cachefile.Remove(out); rmErr != nil {
			log.Warn().Err(rmErr).Str("file", out).Msg("failed to remove partial output")
		}
		return "", newError(IOFailure, src, fmt.Errorf("failed to write %s: %w", out, err))
	}
	return out, nil
}

func (s *Service) copyMetadata(ctx context.Context, l zerolog.Logger, src, dst string) {
	if s.copier == nil {
		return
	}
	report := s.copier.Copy(l.WithContext(ctx), src, dst)
	if report.OK() {
		l.Debug().Int("attributes", len(report.Copied)).Msg("metadata preserved")
	}
}

func logger(ctx context.Context, op, path string) zerolog.Logger {
	return zerolog.Ctx(ctx).With().Str("op", op).Str("file", path).Logger()
}
