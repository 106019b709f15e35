package version

import (
	"strings"
	"testing"
)

// Tests mutate BuildDate, so none of them run in parallel.

func TestCalculateBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{name: "epoch date", date: "2025-01-01", expected: 0},
		{name: "next day after epoch", date: "2025-01-02", expected: 1},
		{name: "one year later", date: "2026-01-01", expected: 365},
		{name: "across a leap year", date: "2029-01-01", expected: 1461},
		{name: "invalid format", date: "01/02/2025", wantError: true},
		{name: "empty date", date: "", wantError: true},
		{name: "before epoch", date: "2024-12-31", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := BuildDate
			defer func() { BuildDate = old }()
			BuildDate = tt.date

			got, err := CalculateBuildID()
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("CalculateBuildID() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	old, oldCommit := BuildDate, BuildCommit
	defer func() { BuildDate, BuildCommit = old, oldCommit }()

	BuildDate, BuildCommit = "2025-01-11", "abc123"
	if got := String(); !strings.Contains(got, "build 10") || !strings.Contains(got, "commit[abc123]") {
		t.Errorf("String() = %q", got)
	}

	BuildDate = ""
	if info := Info(); info.Calculated || info.Error == "" {
		t.Errorf("Info() with no date = %+v, want an error", info)
	}
}
