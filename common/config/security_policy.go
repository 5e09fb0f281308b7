package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hms-services/common/logger"
)

// SecurityPolicy holds tunables of the password reset and registration flows.
// It is read from a JSON file so administrators can change it without a
// redeploy.
type SecurityPolicy struct {
	// Length of generated passwords. Allowed range 8..64, default 12.
	GeneratedPasswordLength int `json:"generatedPasswordLength"`

	// Minutes a credential session stays downloadable. Allowed range 1..240, default 30.
	CredentialSessionTTLMinutes int `json:"credentialSessionTtlMinutes"`

	// Prefix of patient display codes. Default "PAT".
	PatientIDPrefix string `json:"patientIdPrefix"`
}

var (
	globalPolicy *SecurityPolicy
	policyMutex  sync.RWMutex
	policyPath   = "config/security_policy.json"
)

// DefaultSecurityPolicy returns the built-in policy
func DefaultSecurityPolicy() *SecurityPolicy {
	return &SecurityPolicy{
		GeneratedPasswordLength:     12,
		CredentialSessionTTLMinutes: 30,
		PatientIDPrefix:             "PAT",
	}
}

// SessionTTL returns the credential session lifetime
func (p *SecurityPolicy) SessionTTL() time.Duration {
	return time.Duration(p.CredentialSessionTTLMinutes) * time.Minute
}

// Validate checks every field against its allowed range
func (p *SecurityPolicy) Validate() error {
	if p.GeneratedPasswordLength < 8 || p.GeneratedPasswordLength > 64 {
		return fmt.Errorf("generatedPasswordLength must be between 8 and 64")
	}
	if p.CredentialSessionTTLMinutes < 1 || p.CredentialSessionTTLMinutes > 240 {
		return fmt.Errorf("credentialSessionTtlMinutes must be between 1 and 240")
	}
	if p.PatientIDPrefix == "" || len(p.PatientIDPrefix) > 10 {
		return fmt.Errorf("patientIdPrefix must be 1 to 10 characters")
	}
	return nil
}

// SetPolicyPath changes the file LoadSecurityPolicy reads and drops the cache
func SetPolicyPath(path string) {
	policyMutex.Lock()
	defer policyMutex.Unlock()
	policyPath = path
	globalPolicy = nil
}

// LoadSecurityPolicy reads the policy file once. A missing or invalid file
// falls back to defaults field by field.
func LoadSecurityPolicy() *SecurityPolicy {
	policyMutex.RLock()
	if globalPolicy != nil {
		defer policyMutex.RUnlock()
		return globalPolicy
	}
	policyMutex.RUnlock()

	policyMutex.Lock()
	defer policyMutex.Unlock()

	// Double-check after acquiring the write lock
	if globalPolicy != nil {
		return globalPolicy
	}

	log := logger.Default()
	cfg := DefaultSecurityPolicy()

	possiblePaths := []string{
		policyPath,
		filepath.Join("..", policyPath),
	}

	var data []byte
	var err error
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
				log.Warn("Failed to parse security policy, using defaults", "path", path, "error", jsonErr)
				cfg = DefaultSecurityPolicy()
			} else {
				log.Info("Loaded security policy", "path", path)
			}
			break
		}
	}
	if err != nil {
		log.Warn("Security policy file not found, using defaults",
			"passwordLength", cfg.GeneratedPasswordLength,
			"sessionTtlMinutes", cfg.CredentialSessionTTLMinutes)
	}

	defaults := DefaultSecurityPolicy()
	if cfg.GeneratedPasswordLength < 8 || cfg.GeneratedPasswordLength > 64 {
		cfg.GeneratedPasswordLength = defaults.GeneratedPasswordLength
	}
	if cfg.CredentialSessionTTLMinutes < 1 || cfg.CredentialSessionTTLMinutes > 240 {
		cfg.CredentialSessionTTLMinutes = defaults.CredentialSessionTTLMinutes
	}
	if cfg.PatientIDPrefix == "" || len(cfg.PatientIDPrefix) > 10 {
		cfg.PatientIDPrefix = defaults.PatientIDPrefix
	}

	globalPolicy = cfg
	return globalPolicy
}

// SaveSecurityPolicy validates and writes the policy, then replaces the cache
func SaveSecurityPolicy(cfg *SecurityPolicy) error {
	if cfg == nil {
		return fmt.Errorf("policy cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	policyMutex.Lock()
	defer policyMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(policyPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	if err := os.WriteFile(policyPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}

	globalPolicy = cfg
	logger.Default().Info("Security policy saved",
		"passwordLength", cfg.GeneratedPasswordLength,
		"sessionTtlMinutes", cfg.CredentialSessionTTLMinutes,
		"patientIdPrefix", cfg.PatientIDPrefix)
	return nil
}
