package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/image-bridge/internal/service"
	"github.com/ironsheep/image-bridge/internal/worker"
	"github.com/rs/zerolog/log"
)

// Server answers image-operation calls over a line-delimited JSON stream.
type Server struct {
	svc  *service.Service
	pool *worker.Pool
}

// Request is one call read from the input stream.
type Request struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Response is written once for every request. Exactly one of Result and
// Error is set.
type Response struct {
	ID     any        `json:"id"`
	Result any        `json:"result,omitempty"`
	Error  *CallError `json:"error,omitempty"`
}

// CallError is the error half of a Response.
type CallError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// New creates a server that runs calls on pool.
func New(svc *service.Service, pool *worker.Pool) *Server {
	return &Server{
		svc:  svc,
		pool: pool,
	}
}

// Run serves stdin to stdout until stdin is closed or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// maxLineSize is the longest request line Serve accepts. Longer lines are
// discarded and answered with an invalid argument error.
const maxLineSize = 1024 * 1024

// inputLine is one line read from the input stream. Data is nil when the
// line was longer than maxLineSize.
type inputLine struct {
	data    []byte
	tooLong bool
}

// Serve reads requests from r, one JSON object per line, and writes one
// response line per request to w.
//
// Calls run concurrently on the worker pool, so responses can be written in
// a different order than the requests arrived; clients match them by id.
// Only this goroutine writes to w. When r reaches EOF or ctx is done, Serve
// stops reading, waits for the calls in flight, writes their responses and
// returns.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan inputLine)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func(out chan<- inputLine) {
		defer close(out)
		readErr <- readLines(r, out, stop)
	}(lines)

	encoder := json.NewEncoder(w)
	write := func(resp *Response) {
		if err := encoder.Encode(resp); err != nil {
			log.Error().Err(err).Interface("id", resp.ID).Msg("failed to encode response")
		}
	}

	responses := make(chan *Response)
	pending := 0
	done := ctx.Done()
	in := (<-chan inputLine)(lines)

	for in != nil || pending > 0 {
		select {
		case line, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			if line.tooLong {
				log.Warn().Int("limit", maxLineSize).Msg("request line too long")
				write(&Response{Error: &CallError{
					Code:    CodeInvalidArgument,
					Details: fmt.Sprintf("request line exceeds %d bytes", maxLineSize),
				}})
				continue
			}
			if len(line.data) == 0 {
				continue
			}
			if resp := s.dispatch(ctx, line.data, responses); resp != nil {
				write(resp)
			} else {
				pending++
			}

		case resp := <-responses:
			pending--
			write(resp)

		case <-done:
			log.Info().Int("pending", pending).Msg("shutting down, finishing calls in flight")
			in = nil
			done = nil
		}
	}

	select {
	case err := <-readErr:
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
	default:
	}
	return ctx.Err()
}

// readLines sends every line of r to out until EOF, a read error or stop.
func readLines(r io.Reader, out chan<- inputLine, stop <-chan struct{}) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := readLine(br)
		if line.tooLong || len(line.data) > 0 {
			select {
			case out <- line:
			case <-stop:
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readLine reads up to the next newline. The newline and a trailing carriage
// return are dropped. Content past maxLineSize is consumed but not kept.
func readLine(br *bufio.Reader) (inputLine, error) {
	var line inputLine
	for {
		chunk, err := br.ReadSlice('\n')
		if err == nil {
			chunk = chunk[:len(chunk)-1]
		}
		if !line.tooLong {
			if len(line.data)+len(chunk) > maxLineSize {
				line = inputLine{tooLong: true}
			} else {
				line.data = append(line.data, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		line.data = bytes.TrimSuffix(line.data, []byte{'\r'})
		return line, err
	}
}

// dispatch parses line and submits the call. It returns a response right
// away for calls that fail before reaching the pool; otherwise the response
// is delivered on responses later and dispatch returns nil.
func (s *Server) dispatch(ctx context.Context, line []byte, responses chan<- *Response) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		log.Warn().Err(err).Msg("failed to parse request")
		return &Response{Error: &CallError{
			Code:    CodeInvalidArgument,
			Details: fmt.Sprintf("failed to parse request: %v", err),
		}}
	}

	l := log.With().Interface("id", req.ID).Str("method", req.Method).Logger()
	l.Debug().Msg("received call")

	task, err := s.prepareCall(&req)
	if err != nil {
		l.Warn().Err(err).Msg("rejected call")
		return errorResponse(req.ID, err)
	}

	f := s.pool.Submit(l.WithContext(ctx), task)
	go func() {
		result, err := f.Result()
		if err != nil {
			l.Warn().Err(err).Msg("call failed")
			responses <- errorResponse(req.ID, err)
			return
		}
		responses <- &Response{ID: req.ID, Result: result}
	}()
	return nil
}
