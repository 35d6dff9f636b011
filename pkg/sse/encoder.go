// Package sse frames pipeline events as Server-Sent Events. One event becomes
// one frame: a data: prefix, the JSON payload, and a blank-line terminator,
// flushed to the client as soon as it is written.
package sse

import (
	"encoding/json"
	"fmt"
)

// Encode serializes one event as a single SSE frame.
func Encode(event any) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return []byte(fmt.Sprintf("data: %s\n\n", data)), nil
}
