package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Code(t *testing.T) {
	tests := []struct {
		kind Kind
		code string
		name string
	}{
		{FileNotFound, "file does not exist", "FileNotFound"},
		{IOFailure, "something went wrong", "IOFailure"},
		{InvalidBounds, "bounds are outside of the dimensions of the source image", "InvalidBounds"},
		{ResamplerFailure, "invalid resize dimensions", "ResamplerFailure"},
		{InvalidArgument, "invalid argument", "InvalidArgument"},
		{Kind(99), "something went wrong", "IOFailure"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.kind.Code())
		assert.Equal(t, tt.name, tt.kind.String())
	}
}

func TestError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := newError(IOFailure, "/photos/a.jpg", cause)

	assert.Equal(t, "something went wrong: /photos/a.jpg: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "something went wrong", err.Code())

	assert.Equal(t, "file does not exist: /photos/b.jpg", newError(FileNotFound, "/photos/b.jpg", nil).Error())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("task failed: %w", newError(InvalidBounds, "x.jpg", nil))

	assert.Equal(t, InvalidBounds, KindOf(wrapped))
	assert.Equal(t, IOFailure, KindOf(errors.New("plain")))
	assert.Equal(t, IOFailure, KindOf(nil))
}
