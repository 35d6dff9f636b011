package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rivalscope/rivalscope-engine/pkg/jsonutil"
	"github.com/rivalscope/rivalscope-engine/pkg/models"
)

// objectFencePatterns match fenced code blocks containing a JSON object, with
// and without a language tag.
var objectFencePatterns = []*regexp.Regexp{
	regexp.MustCompile("(?i)```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```"),
	regexp.MustCompile("(?i)```\\s*(\\{[\\s\\S]*?\\})\\s*```"),
}

// researchKeyPatterns are the last-resort window matches keyed on the three
// expected field names appearing in order.
var researchKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\{[\s\S]*?"networth"[\s\S]*?"users"[\s\S]*?"funding"[\s\S]*?\}`),
	regexp.MustCompile(`(?is)\{[\s\S]*?"Networth"[\s\S]*?"Users"[\s\S]*?"Funding"[\s\S]*?\}`),
	regexp.MustCompile(`(?is)\{[\s\S]*?networth[\s\S]*?users[\s\S]*?funding[\s\S]*?\}`),
}

// researchKeys are the series names resolved from a candidate object.
var researchKeys = []string{"networth", "users", "funding"}

// ResearchData recovers the three research time series from raw generation
// output. Strategies run in order: fenced code blocks, a balanced-brace scan
// over every top-level object in the text that mentions at least one series
// name, then permissive key-window patterns. A candidate is accepted only
// when all three series resolve to JSON arrays (missing keys default to
// empty). Returns nil when every strategy fails.
func ResearchData(raw string) *models.ResearchData {
	for _, pattern := range objectFencePatterns {
		m := pattern.FindStringSubmatch(raw)
		if len(m) < 2 {
			continue
		}
		if data, ok := buildResearchData(m[1]); ok {
			return data
		}
	}

	for _, candidate := range balancedCandidates(raw, '{', '}') {
		if !mentionsResearchKey(candidate) {
			continue
		}
		if data, ok := buildResearchData(candidate); ok {
			return data
		}
	}

	for _, pattern := range researchKeyPatterns {
		m := pattern.FindString(raw)
		if m == "" {
			continue
		}
		if data, ok := buildResearchData(m); ok {
			return data
		}
	}

	return nil
}

// buildResearchData validates one candidate object. Keys match exactly first,
// then case-insensitively. A present key that is not a JSON array rejects the
// whole candidate so the caller can try the next strategy.
func buildResearchData(jsonStr string) (*models.ResearchData, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &obj); err != nil {
		return nil, false
	}

	series := make(map[string][]models.TimeSeriesPoint, len(researchKeys))
	for _, key := range researchKeys {
		valueRaw, found := resolveKey(obj, key)
		if !found {
			series[key] = []models.TimeSeriesPoint{}
			continue
		}

		if strings.TrimSpace(string(valueRaw)) == "null" {
			return nil, false
		}
		var elements []json.RawMessage
		if err := json.Unmarshal(valueRaw, &elements); err != nil {
			return nil, false
		}

		series[key] = decodePoints(elements)
	}

	return &models.ResearchData{
		Networth: series["networth"],
		Users:    series["users"],
		Funding:  series["funding"],
	}, true
}

// mentionsResearchKey filters balanced-scan candidates down to objects that
// plausibly carry research data, so an unrelated object earlier in the text
// cannot shadow the real one.
func mentionsResearchKey(s string) bool {
	lower := strings.ToLower(s)
	for _, key := range researchKeys {
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}

// resolveKey finds a key in the object, preferring an exact match over a
// case-insensitive one.
func resolveKey(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// decodePoints converts raw array elements to points, dropping elements that
// are not objects or that lack a usable value, year, or source.
func decodePoints(elements []json.RawMessage) []models.TimeSeriesPoint {
	points := make([]models.TimeSeriesPoint, 0, len(elements))
	for _, elementRaw := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elementRaw, &fields); err != nil {
			continue
		}

		valueRaw, hasValue := fields["value"]
		yearRaw, hasYear := fields["year"]
		sourceRaw, hasSource := fields["source"]
		if !hasValue || !hasYear || !hasSource {
			continue
		}

		value, ok := jsonutil.FlexibleFloatValue(valueRaw)
		if !ok {
			continue
		}
		year, ok := jsonutil.FlexibleIntValue(yearRaw)
		if !ok {
			continue
		}

		points = append(points, models.TimeSeriesPoint{
			Value:  value,
			Year:   int(year),
			Source: strings.TrimSpace(jsonutil.FlexibleStringValue(sourceRaw)),
		})
	}
	return points
}
