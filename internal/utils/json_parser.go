package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no JSON value can be recovered from model output
var ErrNoJSON = errors.New("no JSON found in model output")

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.+?)\\s*```")
	thinkBlockRe    = regexp.MustCompile(`(?s)<think>.*?</think>`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)
	controlCharsRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseAIJSON decodes the first JSON object found in a language model reply into target.
// It tolerates reasoning blocks, markdown fences, surrounding prose, trailing
// commas, unquoted keys and single-quoted values.
func ParseAIJSON(input string, target interface{}) error {
	s := strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if s == "" {
		return fmt.Errorf("empty input: %w", ErrNoJSON)
	}
	s = strings.TrimSpace(thinkBlockRe.ReplaceAllString(s, ""))

	candidates := []string{s}
	if m := fencedJSONRe.FindStringSubmatch(s); len(m) > 1 {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if start := strings.Index(s, "{"); start >= 0 {
		if obj := extractBalanced(s[start:], '{', '}'); obj != "" {
			candidates = append(candidates, obj)
		}
	}

	var lastErr error
	for _, c := range candidates {
		err := json.Unmarshal([]byte(c), target)
		if err == nil {
			return nil
		}
		lastErr = err
		if err := json.Unmarshal([]byte(repairJSON(c)), target); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v (input: %s)", ErrNoJSON, lastErr, Truncate(input, 100))
}

// extractBalanced returns the first balanced open/close span, string-aware
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON fixes the formatting slips models commonly make
func repairJSON(input string) string {
	s := trailingCommaRe.ReplaceAllString(input, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	s = fixSingleQuotes(s)
	return controlCharsRe.ReplaceAllString(s, "")
}

// fixSingleQuotes turns single-quoted JSON strings into double-quoted ones,
// leaving apostrophes inside words ("d'angle") alone.
func fixSingleQuotes(input string) string {
	var b strings.Builder
	inDouble := false
	inSingle := false
	escape := false
	var prev rune

	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			if inSingle {
				inSingle = false
				ch = '"'
			} else if strings.ContainsRune(":,[{ \t\n", prev) {
				inSingle = true
				ch = '"'
			}
		}
		b.WriteRune(ch)
		if ch != ' ' {
			prev = ch
		}
	}
	return b.String()
}

// Truncate shortens s to at most maxLen bytes, marking the cut
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
