package clinician

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sqio-health/or-booking-backend/internal/auth"
)

// RegisterRequest carries the fields needed to create a clinician account.
type RegisterRequest struct {
	FirstName     string
	LastName      string
	Specialty     string
	Email         string
	Password      string
	Phone         *string
	LicenseNumber *string
}

// Service defines business logic related to clinicians.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Clinician, error)
	Login(ctx context.Context, email, password string) (*Clinician, error)
	GetByID(ctx context.Context, id string) (*Clinician, error)
	List(ctx context.Context, filter Filter) ([]*Clinician, int, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new clinician Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Clinician, error) {
	cleanEmail := normalizeEmail(req.Email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Specialty) == "" {
		return nil, ErrSpecialtyRequired
	}
	if len(req.Password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cl := &Clinician{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Specialty:     strings.TrimSpace(req.Specialty),
		Email:         cleanEmail,
		PasswordHash:  hash,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, cl); err != nil {
		if errors.Is(err, ErrEmailAlreadyUsed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create clinician: %w", err)
	}

	return cl, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Clinician, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	cl, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch clinician by email: %w", err)
	}

	if !cl.IsActive {
		return nil, ErrInactiveClinician
	}

	if err := s.hasher.Compare(cl.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login_at (best effort; do not fail login if update fails).
	now := time.Now().UTC()
	_ = s.repo.UpdateLastLogin(ctx, cl.ID, now)

	return cl, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Clinician, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Clinician, int, error) {
	return s.repo.List(ctx, filter)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
