package sse

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rivalscope/rivalscope-engine/pkg/models"
)

func TestEncode_StatusEvent(t *testing.T) {
	frame, err := Encode(models.NewStatusEvent("Checking database for existing company..."))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := "data: {\"type\":\"status\",\"message\":\"Checking database for existing company...\"}\n\n"
	if string(frame) != want {
		t.Errorf("frame = %q, want %q", frame, want)
	}
}

func TestEncode_CompetitorsListEvent(t *testing.T) {
	frame, err := Encode(models.NewCompetitorsListEvent(3))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := "data: {\"type\":\"competitors_list\",\"total\":3}\n\n"
	if string(frame) != want {
		t.Errorf("frame = %q, want %q", frame, want)
	}
}

func TestEncode_ErrorEvent(t *testing.T) {
	frame, err := Encode(models.NewErrorEvent("lookup failed"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := "data: {\"type\":\"error\",\"error\":\"lookup failed\"}\n\n"
	if string(frame) != want {
		t.Errorf("frame = %q, want %q", frame, want)
	}
}

func TestEncode_FrameTerminator(t *testing.T) {
	frame, err := Encode(models.NewStatusEvent("working"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.HasPrefix(string(frame), "data: ") {
		t.Errorf("frame missing data: prefix: %q", frame)
	}
	if !strings.HasSuffix(string(frame), "\n\n") {
		t.Errorf("frame missing blank-line terminator: %q", frame)
	}
	if strings.Count(string(frame), "\n") != 2 {
		t.Errorf("frame should hold exactly one line, got %q", frame)
	}
}

func TestEncode_Unencodable(t *testing.T) {
	if _, err := Encode(make(chan int)); err == nil {
		t.Error("expected error for unencodable value")
	}
}

func TestWriter_Headers(t *testing.T) {
	rec := httptest.NewRecorder()

	if _, err := NewWriter(rec); err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	for header, want := range map[string]string{
		"Content-Type":      "text/event-stream",
		"Cache-Control":     "no-cache",
		"Connection":        "keep-alive",
		"X-Accel-Buffering": "no",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestWriter_SendFlushesEachFrame(t *testing.T) {
	rec := httptest.NewRecorder()

	writer, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	if err := writer.Send(models.NewStatusEvent("one")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !rec.Flushed {
		t.Error("first frame was not flushed")
	}

	if err := writer.Send(models.NewCompetitorsListEvent(0)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	body := rec.Body.String()
	want := "data: {\"type\":\"status\",\"message\":\"one\"}\n\n" +
		"data: {\"type\":\"competitors_list\",\"total\":0}\n\n"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

// plainWriter implements http.ResponseWriter without http.Flusher.
type plainWriter struct {
	header http.Header
}

func (p *plainWriter) Header() http.Header       { return p.header }
func (p *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (p *plainWriter) WriteHeader(int)           {}

func TestWriter_RequiresFlusher(t *testing.T) {
	if _, err := NewWriter(&plainWriter{header: http.Header{}}); err == nil {
		t.Error("expected error for non-flushing ResponseWriter")
	}
}
