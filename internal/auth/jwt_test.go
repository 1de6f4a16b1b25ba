package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	token, err := m.GenerateAccessToken("clin-123", "surgeon@hospital.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "clin-123", claims.ClinicianID)
	assert.Equal(t, "surgeon@hospital.test", claims.Email)
	assert.Equal(t, "clin-123", claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", time.Minute)
	other := NewJWTManager("secret-b", time.Minute)

	token, err := m.GenerateAccessToken("clin-123", "surgeon@hospital.test")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken("clin-123", "surgeon@hospital.test")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	_, err := m.ParseAndValidate("not.a.jwt")
	assert.Error(t, err)
}
