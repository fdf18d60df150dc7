//go:build !windows

package argsresolver

import "testing"

func TestQuoteForEcho(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"-frontend", "-frontend"},
		{"/usr/bin/swift-frontend", "/usr/bin/swift-frontend"},
		{"a b.swift", "'a b.swift'"},
		{"it's", `'it'\''s'`},
		{"$HOME/x", "'$HOME/x'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := quoteForEcho(tt.in); got != tt.want {
			t.Errorf("quoteForEcho(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
