package clinician

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("clinician not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveClinician  = errors.New("clinician is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrNameRequired       = errors.New("first and last name are required")
	ErrSpecialtyRequired  = errors.New("specialty is required")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// Clinician represents a surgeon or other practitioner who books rooms.
type Clinician struct {
	ID            string // UUID
	FirstName     string
	LastName      string
	Specialty     string
	Email         string
	PasswordHash  string
	Phone         *string
	LicenseNumber *string
	IsActive      bool
	CreatedAt     time.Time
	LastLoginAt   *time.Time
}

// FullName returns the display form used in booking listings.
func (c *Clinician) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Filter defines filter options for listing clinicians.
type Filter struct {
	Specialty string
	Name      string
	IsActive  *bool // pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
