package service

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/util"
)

const (
	minFullNameLen      = 2
	maxFullNameLen      = 100
	minPhoneLen         = 10
	maxPhoneLen         = 20
	minBaseUsernameLen  = 3
	maxBaseUsernameLen  = 50
	minGuestPasswordLen = 8
	minAdminPasswordLen = 6
	maxPasswordBytes    = 72
	maxExpirationDays   = 365
)

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateGuestUserInput struct {
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phoneNumber"`
	BaseUsername   string  `json:"baseUsername"`
	Password       string  `json:"password"`
	ExpirationDays float64 `json:"expirationDays"`
}

type UpdateGuestUserInput struct {
	IsActive  *bool      `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// validator collects every failed rule instead of stopping at the first.
type validator struct {
	errs []apperrors.FieldError
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.errs = append(v.errs, apperrors.FieldError{Field: field, Message: message})
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperrors.Validation(v.errs)
}

func between(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (in *RegisterInput) normalize() {
	in.Email = util.NormalizeEmail(in.Email)
}

func (in RegisterInput) validate() error {
	var v validator
	v.check(util.IsValidEmail(in.Email), "email", "Valid email is required")
	v.check(utf8.RuneCountInString(in.Password) >= minAdminPasswordLen, "password", "Password must be at least 6 characters long")
	v.check(len(in.Password) <= maxPasswordBytes, "password", "Password must be at most 72 bytes long")
	v.check(util.IsValidAdminPassword(in.Password), "password", "Password must be in format: letters@numbers (e.g., Admin@123)")
	v.check(in.ConfirmPassword == in.Password, "confirmPassword", "Password confirmation does not match password")
	return v.err()
}

func (in *LoginInput) normalize() {
	in.Email = util.NormalizeEmail(in.Email)
}

func (in LoginInput) validate() error {
	var v validator
	v.check(util.IsValidEmail(in.Email), "email", "Valid email is required")
	v.check(in.Password != "", "password", "Password is required")
	return v.err()
}

func (in *CreateGuestUserInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = util.NormalizeEmail(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.BaseUsername = strings.TrimSpace(in.BaseUsername)
}

func (in CreateGuestUserInput) validate() error {
	var v validator
	v.check(between(in.FullName, minFullNameLen, maxFullNameLen), "fullName", "Full name must be between 2 and 100 characters")
	v.check(util.IsValidEmail(in.Email), "email", "Valid email is required")
	v.check(between(in.PhoneNumber, minPhoneLen, maxPhoneLen), "phoneNumber", "Phone number must be between 10 and 20 characters")
	v.check(util.IsValidPhone(in.PhoneNumber), "phoneNumber", "Phone number format is invalid")
	v.check(between(in.BaseUsername, minBaseUsernameLen, maxBaseUsernameLen), "baseUsername", "Username must be between 3 and 50 characters")
	v.check(util.IsValidBaseUsername(in.BaseUsername), "baseUsername", "Username can only contain letters, numbers, dots, underscores, and hyphens")
	v.check(utf8.RuneCountInString(in.Password) >= minGuestPasswordLen, "password", "Password must be at least 8 characters long")
	v.check(len(in.Password) <= maxPasswordBytes, "password", "Password must be at most 72 bytes long")
	v.check(validExpirationDays(in.ExpirationDays), "expirationDays", "Expiration days must be greater than 0 and at most 365")
	return v.err()
}

func validExpirationDays(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0 && d <= maxExpirationDays
}

// expiresAfter converts a fractional day count to an absolute instant at
// millisecond precision.
func expiresAfter(now time.Time, days float64) time.Time {
	ms := math.Round(days * float64(24*time.Hour/time.Millisecond))
	return now.Add(time.Duration(ms) * time.Millisecond)
}
