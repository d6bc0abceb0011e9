package deckbuilder

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// "1. Sol Ring", "12) Sol Ring", "1x Sol Ring", "1 Sol Ring"
	listNumbering = regexp.MustCompile(`^\d+\s*[.)xX]?\s+`)
	// "- Sol Ring", "* Sol Ring", "• Sol Ring"
	listBullet = regexp.MustCompile(`^[-*•]+\s*`)
	// Trailing JSON literal left behind once the key separator is removed: "Sol Ring" true
	trailingLiteral = regexp.MustCompile(`\s+(true|false|null)$`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

const quoteChars = "\"'`“”‘’"

// NormalizeNames turns raw suggestion text into an ordered list of candidate card names.
// Text that parses as JSON has its string leaves extracted in document order first.
// Duplicates are kept. When max is positive the result is truncated to max names.
func NormalizeNames(raw string, max int) []string {
	raw = stripCodeFence(raw)
	var lines []string
	if leaves, ok := jsonLeaves(raw); ok {
		lines = leaves
	} else {
		lines = strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	}
	return NormalizeLines(lines, max)
}

// NormalizeLines cleans an already-split list of suggestion lines.
func NormalizeLines(lines []string, max int) []string {
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		// A JSON leaf may itself hold several lines.
		for _, part := range strings.Split(line, "\n") {
			name := cleanLine(part)
			if name == "" {
				continue
			}
			names = append(names, name)
			if max > 0 && len(names) == max {
				return names
			}
		}
	}
	return names
}

// stripCodeFence removes one markdown code fence wrapping the whole reply,
// including its info string ("```json").
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.Trim(s, "`")
	}
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, "```")
	return s
}

// cleanLine strips list and JSON decoration from a single line.
func cleanLine(line string) string {
	// A key opening a nested array or object ("cards": [) names a container, not a card.
	if trimmed := strings.TrimSpace(line); strings.Contains(trimmed, ":") &&
		(strings.HasSuffix(trimmed, "[") || strings.HasSuffix(trimmed, "{")) {
		return ""
	}
	s := strings.NewReplacer(":", "", "/", "").Replace(line)
	s = strings.TrimSpace(s)

	for {
		before := s

		s = strings.Trim(s, "{}[], \t")
		s = trailingLiteral.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		s = strings.Trim(s, quoteChars)
		s = strings.TrimSpace(s)
		s = listBullet.ReplaceAllString(s, "")
		s = listNumbering.ReplaceAllString(s, "")

		if s == before {
			break
		}
	}

	if isLiteral(s) {
		return ""
	}
	return whitespaceRun.ReplaceAllString(s, " ")
}

func isLiteral(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	return false
}

// jsonLeaves extracts suggestion strings from a JSON document.
// Strings are emitted in document order. Object keys are emitted when their value
// is a bool, number or null, which covers the {"Sol Ring": true} shape.
func jsonLeaves(raw string) ([]string, bool) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || (data[0] != '{' && data[0] != '[') || !json.Valid(data) {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out []string
	if _, err := walkJSON(dec, &out); err != nil {
		return nil, false
	}
	return out, true
}

// walkJSON consumes one JSON value from dec and appends its string leaves to out.
// It reports whether the value was a non-string scalar.
func walkJSON(dec *json.Decoder, out *[]string) (bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return false, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			for dec.More() {
				if _, err := walkJSON(dec, out); err != nil {
					return false, err
				}
			}
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return false, err
				}
				key, _ := keyTok.(string)

				scalar, err := walkJSON(dec, out)
				if err != nil {
					return false, err
				}
				if scalar {
					*out = append(*out, key)
				}
			}
		}
		// closing delimiter
		_, err := dec.Token()
		return false, err

	case string:
		*out = append(*out, v)
		return false, nil

	default:
		return true, nil
	}
}
