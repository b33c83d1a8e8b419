package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/ironsheep/image-bridge/internal/service"
	"github.com/ironsheep/image-bridge/internal/worker"
)

// ErrNotImplemented is returned for methods the server does not know.
var ErrNotImplemented = errors.New("not implemented")

// Error codes that do not come from the service layer.
const (
	CodeNotImplemented  = "not implemented"
	CodeInvalidArgument = "invalid argument"
)

// ArgumentError reports arguments that are missing or malformed.
type ArgumentError struct {
	Method string
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// PlatformVersion describes the runtime platform, e.g. "linux/amd64 go1.24.1".
func PlatformVersion() string {
	return fmt.Sprintf("%s/%s %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// prepareCall validates a request and binds its arguments into a task for the
// worker pool. Argument problems are reported here, before anything is
// submitted.
func (s *Server) prepareCall(req *Request) (worker.Task, error) {
	m, ok := lookupMethod(req.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, req.Method)
	}
	if err := m.checkArgs(req.Args); err != nil {
		return nil, &ArgumentError{Method: req.Method, Err: err}
	}

	switch req.Method {
	case MethodCompressImage:
		return s.handleCompressImage(req.Args)
	case MethodGetImageProperties:
		return s.handleGetImageProperties(req.Args)
	case MethodCropImage:
		return s.handleCropImage(req.Args)
	case MethodGetPlatformVersion:
		return func(context.Context) (any, error) {
			return PlatformVersion(), nil
		}, nil
	case MethodListMethods:
		return func(context.Context) (any, error) {
			return GetMethodDefinitions(), nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, req.Method)
	}
}

func decodeArgs(method string, args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return &ArgumentError{Method: method, Err: err}
	}
	return nil
}

type compressImageArgs struct {
	File         string `json:"file"`
	Percentage   int    `json:"percentage"`
	Quality      int    `json:"quality"`
	TargetWidth  int    `json:"targetWidth"`
	TargetHeight int    `json:"targetHeight"`
}

func (s *Server) handleCompressImage(args json.RawMessage) (worker.Task, error) {
	var a compressImageArgs
	if err := decodeArgs(MethodCompressImage, args, &a); err != nil {
		return nil, err
	}
	req := service.CompressRequest{
		Path:         a.File,
		Percentage:   a.Percentage,
		TargetWidth:  a.TargetWidth,
		TargetHeight: a.TargetHeight,
		Quality:      a.Quality,
	}
	return func(ctx context.Context) (any, error) {
		return s.svc.Compress(ctx, req)
	}, nil
}

type fileArgs struct {
	File string `json:"file"`
}

func (s *Server) handleGetImageProperties(args json.RawMessage) (worker.Task, error) {
	var a fileArgs
	if err := decodeArgs(MethodGetImageProperties, args, &a); err != nil {
		return nil, err
	}
	return func(ctx context.Context) (any, error) {
		return s.svc.Properties(ctx, a.File)
	}, nil
}

type cropImageArgs struct {
	File    string `json:"file"`
	OriginX int    `json:"originX"`
	OriginY int    `json:"originY"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (s *Server) handleCropImage(args json.RawMessage) (worker.Task, error) {
	var a cropImageArgs
	if err := decodeArgs(MethodCropImage, args, &a); err != nil {
		return nil, err
	}
	req := service.CropRequest{
		Path:    a.File,
		OriginX: a.OriginX,
		OriginY: a.OriginY,
		Width:   a.Width,
		Height:  a.Height,
	}
	return func(ctx context.Context) (any, error) {
		return s.svc.Crop(ctx, req)
	}, nil
}

// errorResponse maps err to the error shape clients see:
//
//	code     machine-readable code (service.Kind.Code, "invalid argument", "not implemented")
//	message  the source file path for service errors, empty otherwise
//	details  the underlying cause, when there is one
func errorResponse(id any, err error) *Response {
	var (
		svcErr *service.Error
		argErr *ArgumentError
	)

	callErr := &CallError{Code: service.IOFailure.Code()}
	switch {
	case errors.As(err, &svcErr):
		callErr.Code = svcErr.Code()
		callErr.Message = svcErr.Path
		if svcErr.Err != nil {
			callErr.Details = svcErr.Err.Error()
		}
	case errors.As(err, &argErr):
		callErr.Code = CodeInvalidArgument
		callErr.Details = argErr.Error()
	case errors.Is(err, ErrNotImplemented):
		callErr.Code = CodeNotImplemented
		callErr.Details = err.Error()
	default:
		callErr.Details = err.Error()
	}

	return &Response{ID: id, Error: callErr}
}
