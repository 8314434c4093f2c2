package util

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidFileName is returned for empty or dot-only names.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName replaces path separators, rejects "." and "..", and
// truncates the result to maxRunes characters (0 means no limit).
func SanitizeFileName(name string, maxRunes int) (string, error) {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" || s == "." || s == ".." {
		return "", ErrInvalidFileName
	}
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		s = string([]rune(s)[:maxRunes])
	}
	return s, nil
}
