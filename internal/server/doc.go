// Package server exposes the image operations over a line-delimited JSON
// stream, normally the process's stdin and stdout.
//
// # Protocol
//
// Each input line is one request:
//
//	{"id": 7, "method": "compressImage", "args": {"file": "/photos/a.jpg", "percentage": 50, "quality": 80}}
//
// and produces exactly one output line:
//
//	{"id": 7, "result": "/home/me/.cache/image-bridge/a_compressed6f1c....jpg"}
//
// or, on failure:
//
//	{"id": 7, "error": {"code": "file does not exist", "message": "/photos/a.jpg"}}
//
// The id is echoed verbatim and may be any JSON value. A line that is not
// valid JSON, or is longer than 1 MiB, is answered with an "invalid argument"
// error and a null id.
//
// # Methods
//
//   - compressImage: file, percentage, quality; optional targetWidth, targetHeight
//   - getImageProperties: file
//   - cropImage: file, originX, originY, width, height
//   - getPlatformVersion
//   - listMethods
//
// Unknown methods are answered with the code "not implemented". Missing
// required arguments are answered with "invalid argument" before any work is
// scheduled.
//
// # Concurrency
//
// The read loop hands every call to a worker.Pool and keeps reading. Results
// are funnelled back to the loop, which is the only writer of the output
// stream, so lines are never interleaved. Responses can arrive out of request
// order.
//
// # Logging
//
// Logs go to stderr through zerolog. Each call gets a logger carrying its id
// and method, which the service layer picks up from the context.
package server
