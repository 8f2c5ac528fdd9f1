package api

import (
	"fmt"
	"strings"
)

// Clash player tags use a restricted base-14 alphabet.
const tagAlphabet = "0289PYLQGRJCUV"

const (
	minTagLength = 5
	maxTagLength = 12
)

// NormalizeTag validates a player tag and returns its canonical form:
// uppercase with a leading "#". The leading "#" (or its URL-encoded form)
// is optional on input.
func NormalizeTag(raw string) (string, error) {
	tag := strings.ToUpper(strings.TrimSpace(raw))
	tag = strings.TrimPrefix(tag, "%23")
	tag = strings.TrimPrefix(tag, "#")

	if len(tag) < minTagLength || len(tag) > maxTagLength {
		return "", fmt.Errorf("tag must be %d-%d characters: %q", minTagLength, maxTagLength, raw)
	}
	for _, r := range tag {
		if !strings.ContainsRune(tagAlphabet, r) {
			return "", fmt.Errorf("tag contains invalid character %q", r)
		}
	}
	return "#" + tag, nil
}
