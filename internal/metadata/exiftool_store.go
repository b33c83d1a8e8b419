package metadata

import (
	"fmt"

	"github.com/barasher/go-exiftool"
	"github.com/rs/zerolog/log"
)

// exiftoolTags maps attribute names to exiftool tag names where they differ.
var exiftoolTags = map[string]string{
	AttrISOSpeedRatings: "ISO",
	AttrDateTime:        "ModifyDate",
}

func exiftoolTag(name string) string {
	if tag, ok := exiftoolTags[name]; ok {
		return tag
	}
	return name
}

// ExiftoolStore reads and writes metadata through a long-running exiftool
// process. Values are exchanged in exiftool's numeric form (-n) so that what
// is read from one file can be written verbatim into another.
//
// ExiftoolStore is safe for concurrent use; go-exiftool serializes access to
// the underlying process.
type ExiftoolStore struct {
	et *exiftool.Exiftool
}

// NewExiftoolStore starts exiftool. binaryPath may be empty to look the
// binary up on PATH.
func NewExiftoolStore(binaryPath string) (*ExiftoolStore, error) {
	opts := []func(*exiftool.Exiftool) error{exiftool.NoPrintConversion()}
	if binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}

	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExiftoolStore{et: et}, nil
}

// Close stops the exiftool process.
func (s *ExiftoolStore) Close() error {
	return s.et.Close()
}

// ReadAttributes implements Reader.
func (s *ExiftoolStore) ReadAttributes(path string) (Set, error) {
	fileInfos := s.et.ExtractMetadata(path)
	if len(fileInfos) == 0 {
		return nil, ErrNoMetadata
	}
	if fileInfos[0].Err != nil {
		return nil, fileInfos[0].Err
	}

	var set Set
	for _, name := range Allowlist {
		v, err := fileInfos[0].GetString(exiftoolTag(name))
		if err != nil || v == "" {
			continue
		}
		set = append(set, Attribute{Name: name, Value: v})
	}

	log.Debug().Str("file", path).Int("attributes", len(set)).Msg("read metadata")
	return set, nil
}

// WriteAttributes implements Writer. The file is modified in place and no
// backup copy is kept.
func (s *ExiftoolStore) WriteAttributes(path string, set Set) error {
	if len(set) == 0 {
		return nil
	}

	fm := exiftool.EmptyFileMetadata()
	fm.File = path
	for _, a := range set {
		fm.SetString(exiftoolTag(a.Name), a.Value)
	}

	fileInfos := []exiftool.FileMetadata{fm}
	s.et.WriteMetadata(fileInfos)
	if err := fileInfos[0].Err; err != nil {
		return fmt.Errorf("failed to write metadata to %s: %w", path, err)
	}

	log.Debug().Str("file", path).Int("attributes", len(set)).Msg("wrote metadata")
	return nil
}
