package jwt

import (
	"errors"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/hms-services/common/errors"
)

// Roles
const (
	RoleAdmin  = "ADMIN"
	RoleDoctor = "DOCTOR"
	RoleNurse  = "NURSE"
	RoleStaff  = "STAFF"
)

// Claims represents JWT claims structure
type Claims struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

var (
	secretMu sync.RWMutex
	// JWT secret key; overridden from AppConfig at startup
	secretKey = []byte(getEnv("JWT_SECRET", "dev-only-secret-change-me-0f3a9c1e7b5d4a2c8e6f"))

	// Token expiration time (8 hours, one shift)
	tokenExpiration = 8 * time.Hour
)

// SetSecret replaces the signing secret
func SetSecret(secret string) {
	if secret == "" {
		return
	}
	secretMu.Lock()
	secretKey = []byte(secret)
	secretMu.Unlock()
}

func currentSecret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return secretKey
}

// GenerateToken generates a JWT token for a staff user
func GenerateToken(userID int, username, role string) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(currentSecret())
}

// ValidateToken validates a JWT token and returns claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return currentSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>" value
func ExtractBearer(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// TokenFromHeaders reads the bearer token from Authorization, falling back
// to cookieName when it is set. Header keys are matched case-insensitively.
func TokenFromHeaders(headers map[string]string, cookieName string) string {
	var cookieHeader string
	for key, value := range headers {
		switch {
		case strings.EqualFold(key, "Authorization"):
			if token := ExtractBearer(value); token != "" {
				return token
			}
		case strings.EqualFold(key, "Cookie"):
			cookieHeader = value
		}
	}

	if cookieName == "" || cookieHeader == "" {
		return ""
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == cookieName {
			return strings.TrimSpace(c.Value)
		}
	}
	return ""
}

// Authorize validates token and checks its role against allowed.
// Errors carry 401 for a missing or bad token and 403 for a wrong role.
func Authorize(token string, allowed ...string) (*Claims, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("Missing authorization token")
	}
	claims, err := ValidateToken(token)
	if err != nil {
		return nil, apperrors.InvalidToken()
	}
	if !slices.Contains(allowed, claims.Role) {
		return nil, apperrors.AccessDenied()
	}
	return claims, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
