package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, "HospitalManagement", cfg.DB.Database)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SMTP.UseTLS)
	assert.Empty(t, cfg.SMTP.Username)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{
		"PORT":                 "9090",
		"DB_SERVER":            "db.internal",
		"DB_PORT":              "3307",
		"SMTP_USE_TLS":         "false",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"LOGIN_URL":            "https://hms.example/login",
	}})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DB.Server)
	assert.Equal(t, 3307, cfg.DB.Port)
	assert.False(t, cfg.SMTP.UseTLS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://hms.example/login", cfg.LoginURL)
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{"DB_PORT": "not-a-number"}})
	assert.ErrorIs(t, err, ErrParsingConfig)

	_, err = Parse(env.Options{Environment: map[string]string{"DB_PORT": "70000"}})
	assert.ErrorIs(t, err, ErrParsingConfig)
}

func TestSecurityPolicyLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config", "security_policy.json")
	SetPolicyPath(path)
	t.Cleanup(func() { SetPolicyPath("config/security_policy.json") })

	// missing file -> defaults
	p := LoadSecurityPolicy()
	assert.Equal(t, DefaultSecurityPolicy(), p)
	assert.Equal(t, 30*time.Minute, p.SessionTTL())

	err := SaveSecurityPolicy(&SecurityPolicy{
		GeneratedPasswordLength:     16,
		CredentialSessionTTLMinutes: 10,
		PatientIDPrefix:             "MRN",
	})
	require.NoError(t, err)

	SetPolicyPath(path) // drop cache, force a reread
	p = LoadSecurityPolicy()
	assert.Equal(t, 16, p.GeneratedPasswordLength)
	assert.Equal(t, 10*time.Minute, p.SessionTTL())
	assert.Equal(t, "MRN", p.PatientIDPrefix)
}

func TestSecurityPolicyOutOfRangeFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"generatedPasswordLength":4,"credentialSessionTtlMinutes":15}`), 0644))
	SetPolicyPath(path)
	t.Cleanup(func() { SetPolicyPath("config/security_policy.json") })

	p := LoadSecurityPolicy()
	assert.Equal(t, 12, p.GeneratedPasswordLength)
	assert.Equal(t, 15, p.CredentialSessionTTLMinutes)
	assert.Equal(t, "PAT", p.PatientIDPrefix)
}

func TestSaveSecurityPolicyValidates(t *testing.T) {
	assert.Error(t, SaveSecurityPolicy(nil))
	assert.Error(t, SaveSecurityPolicy(&SecurityPolicy{GeneratedPasswordLength: 7, CredentialSessionTTLMinutes: 5, PatientIDPrefix: "P"}))
	assert.Error(t, SaveSecurityPolicy(&SecurityPolicy{GeneratedPasswordLength: 12, CredentialSessionTTLMinutes: 0, PatientIDPrefix: "P"}))
}
