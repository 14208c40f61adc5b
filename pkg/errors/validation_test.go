package errors

import (
	"strings"
	"testing"
)

func TestValidateAttributeKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"axes", false},
		{"feature_12", false},
		{"", true},
		{"has space", true},
		{"tab\tkey", true},
		{strings.Repeat("k", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateAttributeKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttributeKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateGroupPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{`A`, false},
		{`A\B`, false},
		{`A\\B`, false},
		{``, false},
		{`   `, false},
		{`\\`, false},
		{"A\x00", true},
		{"A\nB", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateGroupPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGroupPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
