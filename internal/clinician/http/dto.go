package http

import (
	"time"

	"github.com/sqio-health/or-booking-backend/internal/clinician"
)

// ClinicianResponse is the shape of clinician data returned in API responses.
type ClinicianResponse struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Specialty     string     `json:"specialty"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	LicenseNumber *string    `json:"license_number,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// NewClinicianResponse converts a domain clinician to the API shape.
func NewClinicianResponse(cl *clinician.Clinician) ClinicianResponse {
	var lastLoginAt *time.Time
	if cl.LastLoginAt != nil {
		ll := *cl.LastLoginAt
		lastLoginAt = &ll
	}

	return ClinicianResponse{
		ID:            cl.ID,
		FirstName:     cl.FirstName,
		LastName:      cl.LastName,
		Specialty:     cl.Specialty,
		Email:         cl.Email,
		Phone:         cl.Phone,
		LicenseNumber: cl.LicenseNumber,
		IsActive:      cl.IsActive,
		CreatedAt:     cl.CreatedAt,
		LastLoginAt:   lastLoginAt,
	}
}

// RegisterRequest defines the payload for clinician registration.
type RegisterRequest struct {
	FirstName     string  `json:"first_name" binding:"required"`
	LastName      string  `json:"last_name" binding:"required"`
	Specialty     string  `json:"specialty" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"license_number"`
}

// LoginRequest defines the payload for clinician login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the token and clinician info.
type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	Clinician   ClinicianResponse `json:"clinician"`
}

// MeResponse returns the current clinician info.
type MeResponse struct {
	Clinician ClinicianResponse `json:"clinician"`
}

// ListCliniciansRequest defines query parameters for listing clinicians.
type ListCliniciansRequest struct {
	Specialty string `form:"specialty"`
	Name      string `form:"name"`
	IsActive  *bool  `form:"is_active"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=last_name specialty created_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}
