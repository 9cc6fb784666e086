package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPasswordPolicy(t *testing.T) {
	policy := NewDefaultPasswordPolicy()

	tests := []struct {
		name       string
		password   string
		username   string
		violations int
	}{
		{"acceptable", "Str0ng-pass-99", "jdoe", 0},
		{"too short", "abc12", "jdoe", 1},
		{"entirely numeric", "123456789012", "jdoe", 1},
		{"too common", "password1", "jdoe", 1},
		{"contains username", "jdoe-secret-99", "jdoe", 1},
		{"short and numeric", "1234", "jdoe", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Validate(tt.password, tt.username)
			assert.Len(t, got, tt.violations)
		})
	}
}
