package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hms-services/common/errors"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken(7, "admin.jane", RoleAdmin)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin.jane", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestAuthorize(t *testing.T) {
	nurse, err := GenerateToken(8, "nurse.bob", RoleNurse)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		allowed []string
		code    apperrors.ErrorCode
	}{
		{"missing token", "", []string{RoleNurse}, apperrors.ErrCodeUnauthorized},
		{"tampered token", nurse + "x", []string{RoleNurse}, apperrors.ErrCodeInvalidToken},
		{"wrong role", nurse, []string{RoleAdmin, RoleDoctor}, apperrors.ErrCodeAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Authorize(tt.token, tt.allowed...)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}

	claims, err := Authorize(nurse, RoleDoctor, RoleNurse)
	require.NoError(t, err)
	assert.Equal(t, "nurse.bob", claims.Username)
}

func TestTokenFromHeaders(t *testing.T) {
	assert.Equal(t, "abc", TokenFromHeaders(map[string]string{"authorization": "Bearer abc"}, ""))
	assert.Equal(t, "abc", TokenFromHeaders(map[string]string{"Authorization": "Bearer abc", "Cookie": "hms_token=xyz"}, "hms_token"))
	assert.Equal(t, "xyz", TokenFromHeaders(map[string]string{"Cookie": "theme=dark; hms_token=xyz"}, "hms_token"))
	assert.Equal(t, "", TokenFromHeaders(map[string]string{"Cookie": "hms_token=xyz"}, ""))
	assert.Equal(t, "", TokenFromHeaders(nil, "hms_token"))
}

func TestSetSecretInvalidatesOldTokens(t *testing.T) {
	token, err := GenerateToken(1, "admin", RoleAdmin)
	require.NoError(t, err)

	original := string(currentSecret())
	SetSecret("another-secret-for-this-test-only")
	t.Cleanup(func() { SetSecret(original) })

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearer("Bearer abc"))
	assert.Equal(t, "abc", ExtractBearer("bearer abc"))
	assert.Equal(t, "", ExtractBearer("Basic abc"))
	assert.Equal(t, "", ExtractBearer(""))
}
