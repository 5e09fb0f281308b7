package models

import "time"

// CredentialState is the state of a credential export session
type CredentialState string

const (
	StateNoCredentials CredentialState = "NO_CREDENTIALS"
	StateUnsaved       CredentialState = "UNSAVED_CREDENTIALS"
	StateConfirmed     CredentialState = "CONFIRMED_RESET"
)

// ResetData is a freshly generated credential awaiting export or confirmation.
// It only ever lives in the session store.
type ResetData struct {
	Username    string    `json:"username"`
	NewPassword string    `json:"newPassword"`
	ResetTime   time.Time `json:"resetTime"`
}

// User is the subset of the Users table the reset flow needs
type User struct {
	ID           int    `json:"id" db:"user_id"`
	Username     string `json:"username" db:"username"`
	FullName     string `json:"fullName" db:"full_name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	Status       string `json:"status" db:"status"`
}

// ResetRequest represents POST /api/admin/credentials/reset
type ResetRequest struct {
	Username string `json:"username"`
}

// SessionRequest carries a credential session ID
type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

// ConfirmResetRequest represents POST /api/admin/credentials/confirm-reset
type ConfirmResetRequest struct {
	SessionID string `json:"sessionId"`
	Confirm   bool   `json:"confirm"`
}

// SessionResponse is the public view of a credential session
type SessionResponse struct {
	SessionID   string          `json:"sessionId"`
	State       CredentialState `json:"state"`
	GuardActive bool            `json:"guardActive"`
	GeneratedBy string          `json:"generatedBy"`
	ResetData   *ResetData      `json:"resetData,omitempty"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

// ExportFile is a rendered credential download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
