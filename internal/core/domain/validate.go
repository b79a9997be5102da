package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultBlockedDomains lists email domains rejected at signup.
var DefaultBlockedDomains = []string{"yahoo", "netscape", "river"}

// emailShape is a deliberately light check: something@something.something
// with no whitespace. Full RFC validation is out of scope.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NonEmpty checks that value is not empty or whitespace-only.
// Returns nil when valid.
func NonEmpty(field, value string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidEmail checks the address shape, then rejects addresses whose domain
// contains any blocked domain (case-insensitive substring match).
func ValidEmail(field, email string, blockedDomains []string) *FieldError {
	if !emailShape.MatchString(email) {
		return &FieldError{Field: field, Message: "invalid email format"}
	}

	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	for _, blocked := range blockedDomains {
		if blocked != "" && strings.Contains(domain, strings.ToLower(blocked)) {
			return &FieldError{Field: field, Message: fmt.Sprintf("accounts from %s are not allowed", domain)}
		}
	}
	return nil
}

// ValidYear checks that year falls within [MinReleaseYear, current year].
func ValidYear(field string, year int) *FieldError {
	current := time.Now().Year()
	if year < MinReleaseYear || year > current {
		return &FieldError{Field: field, Message: fmt.Sprintf("must be between %d and %d", MinReleaseYear, current)}
	}
	return nil
}

// ValidAge checks the signup age floor.
func ValidAge(field string, age int) *FieldError {
	if age < MinAge {
		return &FieldError{Field: field, Message: fmt.Sprintf("must be at least %d", MinAge)}
	}
	return nil
}
