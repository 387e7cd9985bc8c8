package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing", "  Alice  ", "Alice"},
		{"internal runs collapse", "Alice \t  Smith", "Alice Smith"},
		{"already normal", "Alice Smith", "Alice Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Carol@Example.COM", "carol@example.com"},
		{"  bob@example.com ", "bob@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.expected {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeNotes(t *testing.T) {
	got := NormalizeNotes("  first flight,\nnervous  ")
	want := "first flight,\nnervous"
	if got != want {
		t.Errorf("NormalizeNotes() = %q, want %q", got, want)
	}
}
