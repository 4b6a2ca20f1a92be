// Package repair turns incomplete JSON text buffers into best-effort
// complete mappings.
//
// A streaming model emits a serialized record token by token, so almost
// every intermediate buffer is syntactically invalid JSON. Repair attempts a
// direct parse first, then a prioritized list of closing suffixes derived
// from a single scan of the buffer (unterminated string, net unclosed arrays
// and objects), then a fixed list of generic suffixes covering the common
// truncation points. The first candidate that parses into a mapping wins.
//
// The heuristic is deliberately not a general JSON recovery grammar: a
// number cut off mid-digit stays unparseable and simply yields no result
// until more text arrives.
package repair

import (
	stdjson "encoding/json"
	"strings"

	json "github.com/goccy/go-json"
)

// genericSuffixes covers truncation at the end of a field name, at a colon
// before a value, and a value truncated at each primitive default.
var genericSuffixes = []string{
	"}",
	"]}",
	`"}`,
	`"]}`,
	`"}]}`,
	`": null}`,
	`": []}`,
	`": {}}`,
	`": ""}`,
	`": false}`,
	`": true}`,
	`": 0}`,
}

// Repair parses buf as a complete serialized mapping, repairing truncation
// when the direct parse fails. The boolean is false when no candidate
// produced a mapping; Repair never returns an error for malformed input.
func Repair(buf string) (map[string]any, bool) {
	s := strings.TrimSpace(buf)
	if s == "" {
		return nil, false
	}

	if m, ok := parseMapping(s); ok {
		return m, true
	}
	if m, ok := repairTruncated(s); ok {
		return m, true
	}

	// The raw buffer may wrap the record in prose or a markdown code fence.
	for _, candidate := range extractCandidates(s) {
		if m, ok := parseMapping(candidate); ok {
			return m, true
		}
		if m, ok := repairTruncated(candidate); ok {
			return m, true
		}
	}
	return nil, false
}

func repairTruncated(s string) (map[string]any, bool) {
	for _, suffix := range candidateSuffixes(s) {
		if m, ok := parseMapping(s + suffix); ok {
			return m, true
		}
	}
	return nil, false
}

// candidateSuffixes builds the prioritized list of closing suffixes for s:
// first the scan-derived closers (string, then arrays, then objects; then
// string plus objects only, which covers truncation inside a string nested
// directly in an array), then the fixed generic list.
func candidateSuffixes(s string) []string {
	st := scan(s)

	closeStr := ""
	if st.inString {
		closeStr = `"`
	}

	suffixes := make([]string, 0, len(genericSuffixes)+2)
	if st.openObjects > 0 || st.openArrays > 0 || st.inString {
		full := closeStr +
			strings.Repeat("]", st.openArrays) +
			strings.Repeat("}", st.openObjects)
		suffixes = append(suffixes, full)
		if st.openArrays > 0 {
			suffixes = append(suffixes, closeStr+strings.Repeat("}", st.openObjects))
		}
	}
	return append(suffixes, genericSuffixes...)
}

// scanState is the structural summary of a buffer: net unclosed openers and
// whether the buffer ends inside an unterminated string literal.
type scanState struct {
	openObjects int
	openArrays  int
	inString    bool
}

// scan walks the buffer once, tracking quote parity with escape handling: a
// backslash-escaped quote does not toggle string state, and brackets inside
// strings do not count.
func scan(s string) scanState {
	var st scanState
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				st.inString = false
			}
			continue
		}
		switch c {
		case '"':
			st.inString = true
		case '{':
			st.openObjects++
		case '}':
			if st.openObjects > 0 {
				st.openObjects--
			}
		case '[':
			st.openArrays++
		case ']':
			if st.openArrays > 0 {
				st.openArrays--
			}
		}
	}
	return st
}

// extractCandidates pulls likely record texts out of a buffer that is not
// itself a record: the body of a ```json code fence (closed or still open)
// and the outermost brace-delimited slice.
func extractCandidates(s string) []string {
	var out []string

	if i := strings.Index(s, "```"); i >= 0 {
		body := s[i+3:]
		body = strings.TrimPrefix(body, "json")
		body = strings.TrimLeft(body, " \t\r\n")
		if j := strings.Index(body, "```"); j >= 0 {
			body = body[:j]
		}
		if body = strings.TrimSpace(body); body != "" {
			out = append(out, body)
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		out = append(out, s[start:end+1])
	} else if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func parseMapping(s string) (map[string]any, bool) {
	// goccy accepts some malformed numbers (trailing decimal points, leading
	// zeros) that strict JSON rejects. The strict check keeps a buffer
	// truncated mid-number unrepairable instead of silently rounding it.
	if !stdjson.Valid([]byte(s)) {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}
