// Package extract recovers structured product records from the
// semi-structured text payloads returned by research backends. Payloads
// are supposed to contain a JSON array of objects but arrive clean,
// wrapped in prose, truncated mid-stream, or with minor syntax damage.
package extract

import (
	"encoding/json"
	"strings"
)

// Record is one raw key→value product candidate, values untyped.
type Record = map[string]any

// Conventional wrapper keys under which backends nest their array.
var wrapperKeys = []string{"products", "results", "output", "items"}

// Records extracts a sequence of raw records from an arbitrary text
// blob. It never fails: malformed input degrades to an empty sequence.
// Strategies are attempted in order, first non-empty result wins:
// direct parse, embedded array extraction, truncated-array recovery,
// then a trailing-comma repair pass over the first two.
func Records(text string) []Record {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if recs := direct(text); len(recs) > 0 {
		return recs
	}
	if recs := embedded(text); len(recs) > 0 {
		return recs
	}
	if recs := truncated(text); len(recs) > 0 {
		return recs
	}
	repaired := stripTrailingCommas(text)
	if repaired != text {
		if recs := direct(repaired); len(recs) > 0 {
			return recs
		}
		if recs := embedded(repaired); len(recs) > 0 {
			return recs
		}
	}
	return nil
}

// direct treats the whole blob as a single JSON document: either an
// array of objects, or an object carrying the array (or a nested text
// payload) under one of the conventional wrapper keys.
func direct(text string) []Record {
	var arr []any
	if err := json.Unmarshal([]byte(text), &arr); err == nil {
		return onlyRecords(arr)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil
	}
	for _, key := range wrapperKeys {
		switch v := obj[key].(type) {
		case []any:
			if recs := onlyRecords(v); len(recs) > 0 {
				return recs
			}
		case string:
			// Some backends wrap their own text output as a field,
			// e.g. {"output": "[{...}]"}.
			if recs := Records(v); len(recs) > 0 {
				return recs
			}
		case map[string]any:
			// One level of nesting, e.g. {"output": {"content": "..."}}.
			for _, inner := range []string{"content", "text"} {
				if s, ok := v[inner].(string); ok {
					if recs := Records(s); len(recs) > 0 {
						return recs
					}
				}
			}
		}
	}
	return nil
}

// embedded locates the first top-level [ ... ] span using a
// quote-aware depth counter and direct-parses that span.
func embedded(text string) []Record {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return nil
	}
	var sc scanner
	depth := 0
	for i := start; i < len(text); i++ {
		c := text[i]
		if !sc.structural(c) {
			continue
		}
		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return direct(text[start : i+1])
			}
		}
	}
	return nil
}

// truncated handles payloads cut off before the closing bracket: scan
// from the opening [ and collect every syntactically complete top-level
// {...} object, discarding the unterminated tail. Individually damaged
// objects are skipped, not fatal.
func truncated(text string) []Record {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return nil
	}
	var (
		sc       scanner
		depth    int
		objStart = -1
		out      []Record
	)
	for i := start + 1; i < len(text); i++ {
		c := text[i]
		if !sc.structural(c) {
			continue
		}
		switch c {
		case '{':
			if depth == 0 {
				objStart = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && objStart >= 0 {
				span := stripTrailingCommas(text[objStart : i+1])
				var rec map[string]any
				if err := json.Unmarshal([]byte(span), &rec); err == nil {
					out = append(out, rec)
				}
				objStart = -1
			}
		case ']':
			if depth == 0 {
				return out
			}
		}
	}
	return out
}

// scanner is the quote/escape state machine shared by the depth
// counters. Brackets inside quoted strings must not affect depth;
// natural-language fields routinely contain [ ] { } punctuation.
type scanner struct {
	inString bool
	escaped  bool
}

// structural reports whether c should be interpreted as JSON structure
// at the current position, advancing the string/escape state.
func (s *scanner) structural(c byte) bool {
	if s.escaped {
		s.escaped = false
		return false
	}
	switch c {
	case '\\':
		if s.inString {
			s.escaped = true
		}
		return false
	case '"':
		s.inString = !s.inString
		return false
	}
	return !s.inString
}

// stripTrailingCommas removes commas that directly precede a closing
// ] or }, the most common damage in model-generated JSON. Quote-aware:
// commas inside strings are left alone.
func stripTrailingCommas(text string) string {
	var sc scanner
	out := make([]byte, 0, len(text))
	pending := -1 // output index of a structural comma awaiting a verdict
	for i := 0; i < len(text); i++ {
		c := text[i]
		if sc.structural(c) {
			switch c {
			case ',':
				out = append(out, c)
				pending = len(out) - 1
				continue
			case ']', '}':
				if pending >= 0 {
					out = append(out[:pending], out[pending+1:]...)
				}
				pending = -1
				out = append(out, c)
				continue
			}
		}
		if !isSpace(c) {
			pending = -1
		}
		out = append(out, c)
	}
	return string(out)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func onlyRecords(arr []any) []Record {
	out := make([]Record, 0, len(arr))
	for _, v := range arr {
		if rec, ok := v.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
