package mongostore

import "testing"

func TestEscapeKey(t *testing.T) {
	tests := []struct {
		key, escaped string
	}{
		{"axes", "axes"},
		{"a.b", "a%2Eb"},
		{"$x", "%24x"},
		{"100%", "100%25"},
		{"%2E", "%252E"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := EscapeKey(tt.key)
			if got != tt.escaped {
				t.Errorf("EscapeKey(%q) = %q, want %q", tt.key, got, tt.escaped)
			}
			if back := UnescapeKey(got); back != tt.key {
				t.Errorf("UnescapeKey(%q) = %q, want %q", got, back, tt.key)
			}
		})
	}
}
