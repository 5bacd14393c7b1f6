package util

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)
	phoneRegex         = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)
	baseUsernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	adminPasswordRegex = regexp.MustCompile(`^[a-zA-Z]+@\d+$`)
)

// IsValidUUID accepts only the canonical hyphenated form.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func IsValidEmail(s string) bool {
	return len(s) <= 254 && emailRegex.MatchString(s)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailDomain returns the part after the last '@', or "" if there is none.
func EmailDomain(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return email[i+1:]
}

func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

func IsValidBaseUsername(s string) bool {
	return baseUsernameRegex.MatchString(s)
}

// IsValidAdminPassword checks the letters@digits admin password shape, e.g. "Admin@123".
func IsValidAdminPassword(s string) bool {
	return adminPasswordRegex.MatchString(s)
}
