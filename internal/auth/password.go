package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy validates password strength. It returns the empty slice for
// an acceptable password and one message per violation otherwise.
type PasswordPolicy interface {
	Validate(password, username string) []string
}

// DefaultPasswordPolicy rejects short, fully numeric, too common and
// username-derived passwords.
type DefaultPasswordPolicy struct {
	MinLength int
}

func NewDefaultPasswordPolicy() *DefaultPasswordPolicy {
	return &DefaultPasswordPolicy{MinLength: 8}
}

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwertyuiop": {},
	"letmein123": {},
	"iloveyou1":  {},
	"admin12345": {},
}

func (p *DefaultPasswordPolicy) Validate(password, username string) []string {
	var violations []string

	if len(password) < p.MinLength {
		violations = append(violations,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength))
	}

	if password != "" && isEntirelyNumeric(password) {
		violations = append(violations, "This password is entirely numeric.")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		violations = append(violations, "This password is too common.")
	}

	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		violations = append(violations, "The password is too similar to the username.")
	}

	return violations
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
