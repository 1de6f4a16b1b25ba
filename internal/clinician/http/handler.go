package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sqio-health/or-booking-backend/internal/auth"
	"github.com/sqio-health/or-booking-backend/internal/clinician"
	"github.com/sqio-health/or-booking-backend/internal/pkg/request"
	"github.com/sqio-health/or-booking-backend/internal/pkg/response"
)

type ClinicianHandler struct {
	clinicianService clinician.Service
	jwtManager       *auth.JWTManager
}

func NewHandler(clinicianService clinician.Service, jwtManager *auth.JWTManager) *ClinicianHandler {
	return &ClinicianHandler{
		clinicianService: clinicianService,
		jwtManager:       jwtManager,
	}
}

// Register creates a new clinician account if the email is unique.
func (h *ClinicianHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	cl, err := h.clinicianService.Register(c.Request.Context(), clinician.RegisterRequest{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Specialty:     req.Specialty,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, clinician.ErrEmailAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, clinician.ErrEmailRequired),
			errors.Is(err, clinician.ErrNameRequired),
			errors.Is(err, clinician.ErrSpecialtyRequired),
			errors.Is(err, clinician.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create clinician"})
		}
		return
	}

	c.JSON(http.StatusCreated, MeResponse{Clinician: NewClinicianResponse(cl)})
}

// Login authenticates a clinician using email and password.
// On success, it returns a JWT access token and the clinician profile.
func (h *ClinicianHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	cl, err := h.clinicianService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, clinician.ErrInvalidCredentials),
			errors.Is(err, clinician.ErrNotFound),
			errors.Is(err, clinician.ErrInactiveClinician):
			// For security reasons, do not reveal which condition failed
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(cl.ID, cl.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		Clinician:   NewClinicianResponse(cl),
	})
}

// Me retrieves the profile of the currently authenticated clinician.
func (h *ClinicianHandler) Me(c *gin.Context) {
	clinicianID := auth.GetClinicianID(c)
	if clinicianID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if _, err := uuid.Parse(clinicianID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	cl, err := h.clinicianService.GetByID(c.Request.Context(), clinicianID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "clinician not found"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{Clinician: NewClinicianResponse(cl)})
}

// List retrieves a paginated list of clinicians with optional filtering.
func (h *ClinicianHandler) List(c *gin.Context) {
	var req ListCliniciansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := clinician.Filter{
		Specialty: req.Specialty,
		Name:      req.Name,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	clinicians, total, err := h.clinicianService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clinicians"})
		return
	}

	items := make([]ClinicianResponse, len(clinicians))
	for i, cl := range clinicians {
		items[i] = NewClinicianResponse(cl)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// Get retrieves a specific clinician by their ID.
func (h *ClinicianHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	cl, err := h.clinicianService.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, clinician.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "clinician not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get clinician"})
		}
		return
	}

	c.JSON(http.StatusOK, MeResponse{Clinician: NewClinicianResponse(cl)})
}
