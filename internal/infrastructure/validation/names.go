package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrNameEmpty indicates that a name is empty
	ErrNameEmpty = errors.New("name cannot be empty")

	// ErrNameTooLong indicates that a name exceeds the maximum length
	ErrNameTooLong = errors.New("name exceeds maximum length")

	// ErrNameControlChars indicates that a name contains control characters
	ErrNameControlChars = errors.New("name cannot contain control characters")

	// ErrInvalidUsername indicates that a username uses characters outside the allowed set
	ErrInvalidUsername = errors.New("username must be 3 to 32 characters: lowercase letters, numbers, dots, hyphens and underscores, starting with a letter or number")
)

// MaxTopologyNameLength bounds topology names in characters
const MaxTopologyNameLength = 128

// usernameRegex matches lowercase account names
var usernameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,31}$`)

// ValidateTopologyName accepts any printable name up to MaxTopologyNameLength characters
func ValidateTopologyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxTopologyNameLength {
		return ErrNameTooLong
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return ErrNameControlChars
		}
	}
	return nil
}

// ValidateUsername validates an account name after NormalizeUsername
func ValidateUsername(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if !usernameRegex.MatchString(name) {
		return ErrInvalidUsername
	}
	return nil
}

// NormalizeUsername trims and lowercases user input
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
