package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"Valid email", "doctor@hospital.org", true},
		{"Valid with +", "user+tag@example.com", true},
		{"Invalid - no @", "userexample.com", false},
		{"Invalid - no domain", "user@", false},
		{"Invalid chars", "user<script>@example.com", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidEmail(tt.email))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected bool
	}{
		{"Plus and 11 digits", "+12345678901", true},
		{"Formatted US number", "+1 (234) 567-8901", true},
		{"Ten digits", "1234567890", true},
		{"Fifteen digits", "123456789012345", true},
		{"Dots and spaces", "44 20.7946.0000", true},
		{"Too short", "12345", false},
		{"Letters stripped to too short", "abc123", false},
		{"Leading zero", "0123456789", false},
		{"Leading zero after plus", "+0123456789", false},
		{"Sixteen digits", "1234567890123456", false},
		{"Plus in the middle", "12+34567890123", false},
		{"Only plus", "+", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidatePhone(tt.phone), "ValidatePhone(%q)", tt.phone)
		})
	}
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "+12345678901", CleanPhone("+1 (234) 567-8901"))
	assert.Equal(t, "123", CleanPhone("abc123"))
}

func TestValidateStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected []string
	}{
		{
			name:     "Strong password",
			password: "Abcdef1!",
			expected: []string{},
		},
		{
			name:     "Short lowercase only",
			password: "abc",
			expected: []string{MsgPasswordLength, MsgPasswordUppercase, MsgPasswordDigit, MsgPasswordSpecial},
		},
		{
			name:     "Empty reports every rule",
			password: "",
			expected: []string{MsgPasswordLength, MsgPasswordUppercase, MsgPasswordLowercase, MsgPasswordDigit, MsgPasswordSpecial},
		},
		{
			name:     "Uppercase only",
			password: "ABCDEFGH",
			expected: []string{MsgPasswordLowercase, MsgPasswordDigit, MsgPasswordSpecial},
		},
		{
			name:     "Hash is not an accepted special character",
			password: "Abcdefg1#",
			expected: []string{MsgPasswordSpecial},
		},
		{
			name:     "Every accepted special character",
			password: "Aa1@$!%*?&",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateStrongPassword(tt.password))
			assert.Equal(t, len(tt.expected) == 0, IsStrongPassword(tt.password))
		})
	}
}

func TestGetPasswordErrorReturnsFirstRule(t *testing.T) {
	assert.Equal(t, "Password is required", GetPasswordError(""))
	assert.Equal(t, MsgPasswordLength, GetPasswordError("abc"))
	assert.Equal(t, "", GetPasswordError("Abcdef1!"))
}

func TestIsValidFullName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		expected bool
	}{
		{"Valid accented", "José Álvarez", true},
		{"Valid with dash", "Mary-Jane", true},
		{"Valid with apostrophe", "O'Connor", true},
		{"Too short", "A", false},
		{"Too long", strings.Repeat("a", 101), false},
		{"Digits", "R2D2", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidFullName(tt.fullName))
		})
	}
}

func TestCheckAgeAt(t *testing.T) {
	now := time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate string
		expected  bool
	}{
		{"Adult", "2000-01-01", true},
		{"Born today", "2026-10-18", true},
		{"Exactly 150", "1876-10-18", true},
		{"150 until tomorrow", "1875-10-19", true},
		{"151", "1875-10-18", false},
		{"Tomorrow", "2026-10-19", false},
		{"Next year", "2027-01-01", false},
		{"RFC3339", "1990-05-15T10:00:00Z", true},
		{"Slash layout", "1990/05/15", true},
		{"Impossible date", "2020-02-30", false},
		{"Garbage", "not-a-date", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckAgeAt(tt.birthDate, now), "CheckAgeAt(%q)", tt.birthDate)
		})
	}
}

func TestAgeFrom(t *testing.T) {
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		age   int
	}{
		{"Birthday today", time.Date(2000, time.October, 18, 0, 0, 0, 0, time.UTC), 26},
		{"Birthday tomorrow", time.Date(2000, time.October, 19, 0, 0, 0, 0, time.UTC), 25},
		{"Birthday passed", time.Date(2000, time.March, 1, 0, 0, 0, 0, time.UTC), 26},
		{"Future", time.Date(2028, time.October, 18, 0, 0, 0, 0, time.UTC), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.age, AgeFrom(tt.birth, now))
		})
	}
}

func TestGetBirthDateError(t *testing.T) {
	assert.Equal(t, "Date of birth is required", GetBirthDateError("  "))
	assert.Equal(t, "Invalid date of birth. Use YYYY-MM-DD", GetBirthDateError("31/12/1990"))
	assert.NotEmpty(t, GetBirthDateError("1800-01-01"))
	assert.Empty(t, GetBirthDateError("1990-12-31"))
}
