package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "Senior Go Engineer",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "profile",
			limit:  10,
			expect: "profile",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "consultant profile",
			limit:  10,
			expect: "consultant...",
		},
		{
			name:   "counts runes, not bytes",
			input:  "Ünïcödé name",
			limit:  7,
			expect: "Ünïcödé...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
	}{
		{input: "", expect: ""},
		{input: "Go Developer", expect: "Go Developer"},
		{input: "  Go\r\nDeveloper\tRemote  ", expect: "Go Developer Remote"},
		{input: "Title\nBcc: someone@example.com", expect: "Title Bcc: someone@example.com"},
	}

	for _, tt := range tests {
		if got := SingleLine(tt.input); got != tt.expect {
			t.Fatalf("SingleLine(%q): expected %q, got %q", tt.input, tt.expect, got)
		}
	}
}
