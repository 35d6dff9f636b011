// Package extract recovers structured competitor and research data from
// free-form generation output. Responses are expected-but-not-guaranteed to
// contain valid JSON, so every entry point works through ordered fallback
// strategies and degrades to empty/nil instead of returning errors.
package extract

// balancedCandidates returns every top-level balanced structure opened by
// openChar, in source order. It tracks JSON string and escape state so
// brackets inside string values do not break the depth count.
func balancedCandidates(s string, openChar, closeChar byte) []string {
	var out []string

	depth := 0
	inString := false
	escaped := false
	start := -1

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			if depth == 0 {
				start = i
			}
			depth++
		} else if c == closeChar && depth > 0 {
			depth--
			if depth == 0 && start != -1 {
				out = append(out, s[start:i+1])
				start = -1
			}
		}
	}

	return out
}
