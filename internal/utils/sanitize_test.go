package utils

import (
	"strings"
	"testing"
)

func TestValidateReportUUID(t *testing.T) {
	valid := []string{
		"a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		"A1B2C3D4-E5F6-7890-ABCD-EF1234567890", // case-insensitive
	}
	for _, uuid := range valid {
		if err := ValidateReportUUID(uuid); err != nil {
			t.Errorf("ValidateReportUUID(%q) = %v, want nil", uuid, err)
		}
	}

	invalid := []string{
		"",
		"not-a-uuid",
		"a1b2c3d4e5f678 90abcdef1234567890",
		"a1b2c3d4-e5f6-7890-abcd",                    // too short
		"a1b2c3d4-e5f6-7890-abcd-ef1234567890-extra", // too long
	}
	for _, uuid := range invalid {
		if err := ValidateReportUUID(uuid); err == nil {
			t.Errorf("ValidateReportUUID(%q) = nil, want error", uuid)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "junio.csv", "junio.csv"},
		{"path stripped", "/tmp/junio.csv", "_tmp_junio.csv"},
		{"windows path stripped", "C:\\exports\\junio.xlsx", "C:_exports_junio.xlsx"},
		{"traversal neutralized", "../../etc/passwd", "____etc_passwd"},
		{"spaces kept", "reporte junio 2024.csv", "reporte junio 2024.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Empty(t *testing.T) {
	if _, err := SanitizeFilename(""); err == nil {
		t.Error("expected error for empty filename")
	}
	// Only control characters left after stripping.
	if _, err := SanitizeFilename("\x00\x01"); err == nil {
		t.Error("expected error for control-only filename")
	}
}

func TestSanitizeFilename_LongNameKeepsExtension(t *testing.T) {
	long := strings.Repeat("a", 300) + ".csv"
	got, err := SanitizeFilename(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 255 {
		t.Errorf("expected 255 bytes, got %d", len(got))
	}
	if !strings.HasSuffix(got, ".csv") {
		t.Errorf("extension lost: %q", got[len(got)-10:])
	}
}
