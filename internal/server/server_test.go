package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/image-bridge/internal/cachefile"
	"github.com/ironsheep/image-bridge/internal/service"
	"github.com/ironsheep/image-bridge/internal/worker"
)

// testResponse mirrors Response with the result left undecoded.
type testResponse struct {
	ID     any             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *CallError      `json:"error"`
}

func newTestServer(t *testing.T, maxConcurrency int) (*Server, string) {
	t.Helper()
	cacheDir := filepath.Join(t.TempDir(), "cache")
	svc := service.New(service.Options{
		Allocator:   cachefile.NewAllocator(cacheDir),
		ReduceColor: true,
	})
	pool := worker.New(maxConcurrency)
	t.Cleanup(pool.Close)
	return New(svc, pool), cacheDir
}

// serve runs the server over the given request lines and returns the
// responses keyed by string id.
func serve(t *testing.T, s *Server, lines ...string) map[string]testResponse {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	if err := s.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve returned error: %v", err)
	}

	responses := make(map[string]testResponse)
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp testResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response %q: %v", scanner.Text(), err)
		}
		key, _ := resp.ID.(string)
		if _, dup := responses[key]; dup {
			t.Fatalf("duplicate response for id %q", key)
		}
		responses[key] = resp
	}
	return responses
}

func TestRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     any
		wantMethod string
	}{
		{
			"string id",
			`{"id":"call-1","method":"getPlatformVersion"}`,
			"call-1",
			"getPlatformVersion",
		},
		{
			"number id",
			`{"id":42,"method":"cropImage","args":{"file":"a.jpg"}}`,
			float64(42), // JSON numbers decode as float64
			"cropImage",
		},
		{
			"null id",
			`{"id":null,"method":"listMethods"}`,
			nil,
			"listMethods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestResponse_Marshal(t *testing.T) {
	data, err := json.Marshal(Response{ID: 1, Result: "/cache/a_compressed.jpg"})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if got := string(data); got != `{"id":1,"result":"/cache/a_compressed.jpg"}` {
		t.Errorf("got %s", got)
	}

	data, err = json.Marshal(Response{ID: "x", Error: &CallError{Code: "file does not exist", Message: "/a.jpg"}})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if got := string(data); got != `{"id":"x","error":{"code":"file does not exist","message":"/a.jpg"}}` {
		t.Errorf("got %s", got)
	}
}

func TestServe_GetPlatformVersion(t *testing.T) {
	s, _ := newTestServer(t, 0)

	responses := serve(t, s, `{"id":"v","method":"getPlatformVersion"}`)

	resp, ok := responses["v"]
	if !ok {
		t.Fatal("no response for id v")
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	var version string
	if err := json.Unmarshal(resp.Result, &version); err != nil {
		t.Fatalf("result is not a string: %s", resp.Result)
	}
	if version != PlatformVersion() {
		t.Errorf("version: got %q, want %q", version, PlatformVersion())
	}
}

func TestServe_OneResponsePerRequest(t *testing.T) {
	s, _ := newTestServer(t, 2)
	img := createTestImageFile(t, "photo.jpg", 40, 30)

	lines := []string{
		`{"id":"p1","method":"getImageProperties","args":{"file":"` + img + `"}}`,
		`{"id":"c1","method":"compressImage","args":{"file":"` + img + `","percentage":50,"quality":80}}`,
		`{"id":"k1","method":"cropImage","args":{"file":"` + img + `","originX":0,"originY":0,"width":10,"height":10}}`,
		``,
		`{"id":"u1","method":"rotateImage","args":{}}`,
		`{"id":"m1","method":"cropImage","args":{"file":"` + img + `"}}`,
		`{"id":"v1","method":"getPlatformVersion"}`,
		`{"id":"l1","method":"listMethods"}`,
	}
	responses := serve(t, s, lines...)

	for _, id := range []string{"p1", "c1", "k1", "u1", "m1", "v1", "l1"} {
		if _, ok := responses[id]; !ok {
			t.Errorf("missing response for %s", id)
		}
	}
	if len(responses) != 7 {
		t.Errorf("response count: got %d, want 7", len(responses))
	}

	if e := responses["u1"].Error; e == nil || e.Code != "not implemented" {
		t.Errorf("unknown method: got %+v, want not implemented", e)
	}
	if e := responses["m1"].Error; e == nil || e.Code != "invalid argument" {
		t.Errorf("missing args: got %+v, want invalid argument", e)
	}

	var methods []Method
	if err := json.Unmarshal(responses["l1"].Result, &methods); err != nil || len(methods) != len(GetMethodDefinitions()) {
		t.Errorf("listMethods: got %s (%v)", responses["l1"].Result, err)
	}
}

func TestServe_MalformedLine(t *testing.T) {
	s, _ := newTestServer(t, 0)

	responses := serve(t, s, `{not json`, `{"id":"ok","method":"getPlatformVersion"}`)

	bad, ok := responses[""]
	if !ok {
		t.Fatal("no response for malformed line")
	}
	if bad.ID != nil {
		t.Errorf("ID: got %v, want null", bad.ID)
	}
	if bad.Error == nil || bad.Error.Code != "invalid argument" {
		t.Errorf("error: got %+v, want invalid argument", bad.Error)
	}
	if responses["ok"].Error != nil {
		t.Errorf("following call failed: %+v", responses["ok"].Error)
	}
}

func TestServe_NumericID(t *testing.T) {
	s, _ := newTestServer(t, 0)
	var out bytes.Buffer

	err := s.Serve(context.Background(), strings.NewReader(`{"id":17,"method":"getPlatformVersion"}`+"\n"), &out)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var resp testResponse
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.ID != float64(17) {
		t.Errorf("ID: got %v (%T), want 17", resp.ID, resp.ID)
	}
}

func TestServe_ContextCancelled(t *testing.T) {
	s, _ := newTestServer(t, 0)
	ctx, cancel := context.WithCancel(context.Background())

	// A reader that never delivers a line.
	pr, pw := io.Pipe()
	defer pw.Close()

	errc := make(chan error, 1)
	go func() {
		errc <- s.Serve(ctx, pr, io.Discard)
	}()

	cancel()
	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestServe_CancelledBeforeReading(t *testing.T) {
	s, _ := newTestServer(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := `{"id":"a","method":"getPlatformVersion"}` + "\n" + `{"id":"b","method":"listMethods"}` + "\n"
	for i := 0; i < 200; i++ {
		err := s.Serve(ctx, strings.NewReader(input), io.Discard)
		if err != context.Canceled {
			t.Fatalf("iteration %d: got %v, want context.Canceled", i, err)
		}
	}
}

func TestServe_OversizedLine(t *testing.T) {
	s, _ := newTestServer(t, 0)
	big := `{"id":"big","method":"getImageProperties","args":{"file":"` + strings.Repeat("a", 2*maxLineSize) + `"}}`

	responses := serve(t, s, big, `{"id":"next","method":"getPlatformVersion"}`)

	if len(responses) != 2 {
		t.Fatalf("responses: got %d, want 2", len(responses))
	}
	tooLong, ok := responses[""]
	if !ok {
		t.Fatal("no response for oversized line")
	}
	if tooLong.ID != nil {
		t.Errorf("ID: got %v, want null", tooLong.ID)
	}
	if tooLong.Error == nil || tooLong.Error.Code != CodeInvalidArgument {
		t.Errorf("error: got %+v, want invalid argument", tooLong.Error)
	}
	if next := responses["next"]; next.Error != nil || len(next.Result) == 0 {
		t.Errorf("following call: got %+v, want a result", next)
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantData    string
		wantTooLong bool
	}{
		{"plain", "abc\nrest", "abc", false},
		{"crlf", "abc\r\nrest", "abc", false},
		{"no trailing newline", "abc", "abc", false},
		{"empty", "\nrest", "", false},
		{"at limit", strings.Repeat("x", maxLineSize) + "\n", strings.Repeat("x", maxLineSize), false},
		{"over limit", strings.Repeat("x", maxLineSize+1) + "\nrest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReaderSize(strings.NewReader(tt.input), 4096)
			line, err := readLine(br)
			if err != nil && err != io.EOF {
				t.Fatalf("readLine: %v", err)
			}
			if line.tooLong != tt.wantTooLong {
				t.Errorf("tooLong: got %v, want %v", line.tooLong, tt.wantTooLong)
			}
			if string(line.data) != tt.wantData {
				t.Errorf("data: got %d bytes, want %d", len(line.data), len(tt.wantData))
			}
			if strings.HasSuffix(tt.input, "rest") {
				rest, _ := io.ReadAll(br)
				if string(rest) != "rest" {
					t.Errorf("remaining input: got %q, want %q", rest, "rest")
				}
			}
		})
	}
}
