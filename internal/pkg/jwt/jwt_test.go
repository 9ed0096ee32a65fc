package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "5m")

	token, expiresAt, err := svc.GenerateAccessToken("emp-1", "Ana", user.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "employee", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestGenerateAccessToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService(testSecret, "soon", "5m")

	_, _, err := svc.GenerateAccessToken("emp-1", "Ana", user.RoleEmployee)
	assert.Error(t, err)
}

func TestStreamToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "5m")

	token, expiresIn, err := svc.GenerateStreamToken("admin-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	employeeID, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", employeeID)
}

func TestValidateStreamToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "5m")

	token, _, err := svc.GenerateAccessToken("emp-1", "Ana", user.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestValidateStreamToken_RejectsForeignSecret(t *testing.T) {
	other := NewJWTService("another-secret", "1h", "5m")
	token, _, err := other.GenerateStreamToken("admin-1")
	require.NoError(t, err)

	svc := NewJWTService(testSecret, "1h", "5m")
	_, err = svc.ValidateStreamToken(token)
	assert.Error(t, err)
}
