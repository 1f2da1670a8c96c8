package masking

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// bearerPattern captures "Bearer <token>" style credentials.
	bearerPattern = regexp.MustCompile(`(?i)\b(bearer\s+)([A-Za-z0-9\-._~+/]+=*)`)
	// keyValuePattern captures credential-looking key=value fragments with
	// a long alphanumeric value.
	keyValuePattern = regexp.MustCompile(`(?i)\b(api[_-]?key|password|passwd|token|secret|access[_-]?key)(\s*[=:]\s*)([A-Za-z0-9\-._]{8,})`)
	// emailPattern captures email addresses; the local part past the first
	// character is masked while the domain is kept.
	emailPattern = regexp.MustCompile(`\b([A-Za-z0-9._%+\-])([A-Za-z0-9._%+\-]*)(@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})\b`)
)

// MaskString sanitizes free-form text such as alert titles and messages.
// Known sensitive substrings (bearer tokens, credential key=value
// fragments, email addresses) are replaced with masked output; the rest of
// the text is left intact.
func MaskString(text string, config Config) string {
	config = config.normalized()

	masked := bearerPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := bearerPattern.FindStringSubmatch(match)
		return groups[1] + MaskValue(groups[2], config)
	})

	masked = keyValuePattern.ReplaceAllStringFunc(masked, func(match string) string {
		groups := keyValuePattern.FindStringSubmatch(match)
		return groups[1] + groups[2] + MaskValue(groups[3], config)
	})

	// Emails keep the first local character and the domain regardless of
	// the configured strategy.
	masked = emailPattern.ReplaceAllStringFunc(masked, func(match string) string {
		groups := emailPattern.FindStringSubmatch(match)
		return groups[1] + strings.Repeat(config.MaskChar, len(groups[2])) + groups[3]
	})

	return masked
}

// hashTag renders a short opaque tag from a rolling polynomial hash of the
// value. Two identical secrets hash to the same tag without revealing
// content; this is not a cryptographic hash.
func hashTag(value string) string {
	var hash int32
	for _, char := range value {
		hash = hash*31 + char
	}
	return fmt.Sprintf("[hash:%08x]", uint32(hash))
}
