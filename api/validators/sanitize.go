package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeObjectName rejects object names that could escape the bucket prefix.
func SanitizeObjectName(input string, maxLen int) string {
	name := SanitizeString(input, maxLen)
	if name == "" {
		return ""
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return ""
	}
	return name
}
