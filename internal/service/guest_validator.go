package service

import (
	"regexp"
	"strings"

	"homestay/internal/errors"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\d{10,11}$`)
)

// GuestValidator validates guest contact information on booking submissions.
type GuestValidator struct{}

// NewGuestValidator creates a new guest validator.
func NewGuestValidator() *GuestValidator {
	return &GuestValidator{}
}

// ValidateGuest checks name, email shape, and phone length. Errors are
// field-scoped and resolved before any persistence happens.
func (v *GuestValidator) ValidateGuest(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewValidationError("guest_name", "name is required")
	}

	if !emailRegex.MatchString(email) {
		return errors.NewValidationError("guest_email", "invalid email address")
	}

	// Strip separators before the digit count check
	phone = strings.NewReplacer(" ", "", "-", "", ".", "").Replace(phone)
	if !phoneRegex.MatchString(phone) {
		return errors.NewValidationError("guest_phone", "phone must be 10-11 digits")
	}

	return nil
}

// NormalizePhone returns the phone with separators removed.
func (v *GuestValidator) NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(phone)
}
