package handler

import "testing"

func TestResolveOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"no config", nil, "https://app.example.org", "*"},
		{"wildcard with origin", []string{"*"}, "https://app.example.org", "https://app.example.org"},
		{"wildcard without origin", []string{"*"}, "", "*"},
		{"exact match", []string{"https://app.example.org"}, "https://app.example.org", "https://app.example.org"},
		{"no match falls back to first", []string{"https://a.example.org", "https://b.example.org"}, "https://evil.example.org", "https://a.example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCorsHandler(tt.allowed)
			if got := h.resolveOrigin(tt.origin); got != tt.want {
				t.Errorf("resolveOrigin(%q) = %q, want %q", tt.origin, got, tt.want)
			}
		})
	}
}
