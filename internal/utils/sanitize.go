// Package utils holds small input-hygiene helpers shared by the HTTP
// handlers.
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var uuidPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateReportUUID validates that a report UUID is properly formatted.
func ValidateReportUUID(uuid string) error {
	if uuid == "" {
		return fmt.Errorf("report UUID is required")
	}
	if !uuidPattern.MatchString(strings.ToLower(uuid)) {
		return fmt.Errorf("invalid UUID format")
	}
	return nil
}

// SanitizeFilename cleans an uploaded filename for safe storage: path
// components and control characters are stripped, and the result is capped
// at 255 bytes keeping the extension.
func SanitizeFilename(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}

	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")

	var sanitized strings.Builder
	for _, r := range filename {
		if unicode.IsPrint(r) && r != '\t' {
			sanitized.WriteRune(r)
		}
	}
	filename = sanitized.String()

	if len(filename) > 255 {
		ext := ""
		if idx := strings.LastIndex(filename, "."); idx > 0 {
			ext = filename[idx:]
			filename = filename[:idx]
		}
		maxBase := 255 - len(ext)
		if maxBase > 0 {
			filename = filename[:maxBase] + ext
		} else {
			filename = filename[:255]
		}
	}

	if filename == "" {
		return "", fmt.Errorf("filename is empty after sanitization")
	}
	return filename, nil
}
