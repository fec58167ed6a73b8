package util

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"go-interview-client/pkg/apierror"
)

const maxFilenameRunes = 255

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

var windowsReservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeFilename turns an uploaded résumé name into something safe to store.
// Directory parts are dropped; hidden names are rejected.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if idx := strings.LastIndexAny(trimmed, `/\`); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[idx+1:])
	}
	if trimmed == "" {
		return "", invalidFilename("filename cannot be empty")
	}

	var builder strings.Builder
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if char == 0 || unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	if cleaned == "" {
		return "", invalidFilename("filename is invalid after sanitization")
	}

	// Truncate by runes so multi-byte characters survive.
	if runes := []rune(cleaned); len(runes) > maxFilenameRunes {
		cleaned = string(runes[:maxFilenameRunes])
	}

	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".") {
		return "", invalidFilename("hidden filenames are not allowed")
	}

	stem := cleaned
	if idx := strings.Index(cleaned, "."); idx >= 0 {
		stem = cleaned[:idx]
	}
	if _, reserved := windowsReservedNames[strings.ToUpper(stem)]; reserved {
		return "", invalidFilename("reserved filename is not allowed")
	}

	return cleaned, nil
}

func invalidFilename(message string) error {
	return apierror.New(http.StatusBadRequest, message)
}

func isInvisibleUnicode(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F',
		'\u2060', '\u2061', '\u2062', '\u2063', '\u2064',
		'\uFEFF', '\uFFF9', '\uFFFA', '\uFFFB':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
