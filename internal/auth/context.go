package auth

import "github.com/gin-gonic/gin"

// GetClinicianID returns the authenticated clinician's ID or empty string.
func GetClinicianID(c *gin.Context) string {
	if v, ok := c.Get("clinicianID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetClinicianEmail returns the authenticated clinician's email or empty string.
func GetClinicianEmail(c *gin.Context) string {
	if v, ok := c.Get("clinicianEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
