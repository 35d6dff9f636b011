package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rivalscope/rivalscope-engine/pkg/jsonutil"
)

// arrayFencePattern matches a fenced code block containing a JSON array.
var arrayFencePattern = regexp.MustCompile("(?i)```(?:json)?\\s*(\\[[\\s\\S]*?\\])\\s*```")

// Candidate is one competitor entry recovered from generation output.
type Candidate struct {
	Name string
	URL  string
}

// CompetitorList recovers an ordered competitor list from raw generation
// output. It takes the first well-formed JSON array found in the text, falling
// back to a fenced code block, and keeps only elements that are objects with
// non-empty name and url after trimming. Returns an empty slice when nothing
// parses.
func CompetitorList(raw string) []Candidate {
	for _, candidate := range balancedCandidates(raw, '[', ']') {
		if competitors, ok := parseCompetitorArray(candidate); ok {
			return competitors
		}
	}

	if m := arrayFencePattern.FindStringSubmatch(raw); len(m) >= 2 {
		if competitors, ok := parseCompetitorArray(m[1]); ok {
			return competitors
		}
	}

	return []Candidate{}
}

// parseCompetitorArray parses one array candidate. ok is false when the text
// is not a JSON array at all; a well-formed array with no usable elements
// yields an empty slice with ok true.
func parseCompetitorArray(jsonStr string) ([]Candidate, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &items); err != nil {
		return nil, false
	}

	competitors := make([]Candidate, 0, len(items))
	for _, itemRaw := range items {
		var item map[string]json.RawMessage
		if err := json.Unmarshal(itemRaw, &item); err != nil {
			continue
		}

		nameRaw, hasName := item["name"]
		urlRaw, hasURL := item["url"]
		if !hasName || !hasURL {
			continue
		}

		name := strings.TrimSpace(jsonutil.FlexibleStringValue(nameRaw))
		url := strings.TrimSpace(jsonutil.FlexibleStringValue(urlRaw))
		if name == "" || url == "" {
			continue
		}

		competitors = append(competitors, Candidate{Name: name, URL: url})
	}

	return competitors, true
}
