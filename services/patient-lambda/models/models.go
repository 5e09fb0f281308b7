package models

import (
	"encoding/json"
	"time"
)

// Patient represents a registered patient
type Patient struct {
	ID          int             `json:"id" db:"patient_id"`
	Code        string          `json:"code" db:"patient_code"`
	FullName    string          `json:"fullName" db:"full_name"`
	Email       string          `json:"email,omitempty" db:"email"`
	Phone       string          `json:"phone" db:"phone"`
	DateOfBirth time.Time       `json:"dateOfBirth" db:"date_of_birth"`
	Age         int             `json:"age"`
	Gender      string          `json:"gender,omitempty" db:"gender"`
	Address     string          `json:"address,omitempty" db:"address"`
	Intake      json.RawMessage `json:"intake,omitempty" db:"intake_json"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Request field names
const (
	FieldFullName    = "fullName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldDateOfBirth = "dateOfBirth"
	FieldGender      = "gender"
	FieldAddress     = "address"
	FieldIntake      = "intake"
)

// PasswordCheckRequest represents POST /api/validate/password
type PasswordCheckRequest struct {
	Password string `json:"password"`
}

// PasswordCheckResponse lists failed rules in order; empty means strong
type PasswordCheckResponse struct {
	Strong bool     `json:"strong"`
	Errors []string `json:"errors"`
}
