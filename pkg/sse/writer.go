package sse

import (
	"fmt"
	"net/http"
)

// Writer streams SSE frames over an http.ResponseWriter, flushing after every
// frame so intermediaries cannot batch the stream.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares w for event streaming: sets the SSE headers and verifies
// the transport can flush. Returns an error when the ResponseWriter does not
// support flushing (no streaming is possible through it).
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one event as a frame and flushes it immediately.
func (s *Writer) Send(event any) error {
	frame, err := Encode(event)
	if err != nil {
		return err
	}

	if _, err := s.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	s.flusher.Flush()

	return nil
}
