package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hms-services/common/db"
	"github.com/hms-services/services/patient-lambda/models"
)

// PatientRepository handles patient data access
type PatientRepository struct {
	db *sql.DB
}

// NewPatientRepository creates a repository on the shared pool
func NewPatientRepository() *PatientRepository {
	return &PatientRepository{
		db: db.GetDB(),
	}
}

// Create inserts a patient and returns the new ID. A duplicate patient_code
// surfaces as a MySQL 1062 error (see db.IsDuplicateEntry).
func (r *PatientRepository) Create(ctx context.Context, p *models.Patient) (int, error) {
	query := `
		INSERT INTO Patients (patient_code, full_name, email, phone, date_of_birth, gender, address, intake_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var intake interface{}
	if len(p.Intake) > 0 {
		intake = string(p.Intake)
	}

	result, err := r.db.ExecContext(ctx, query,
		p.Code,
		p.FullName,
		nullString(p.Email),
		p.Phone,
		p.DateOfBirth.Format("2006-01-02"),
		nullString(p.Gender),
		nullString(p.Address),
		intake,
		p.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert patient: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get patient id: %w", err)
	}
	return int(id), nil
}

// FindByCode finds a patient by display code; nil, nil when absent
func (r *PatientRepository) FindByCode(ctx context.Context, code string) (*models.Patient, error) {
	query := `
		SELECT patient_id, patient_code, full_name, email, phone, date_of_birth, gender, address, intake_json, created_at
		FROM Patients
		WHERE patient_code = ?
	`

	var p models.Patient
	var email, gender, address, intake sql.NullString
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&p.ID,
		&p.Code,
		&p.FullName,
		&email,
		&p.Phone,
		&p.DateOfBirth,
		&gender,
		&address,
		&intake,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}

	p.Email = email.String
	p.Gender = gender.String
	p.Address = address.String
	if intake.Valid {
		p.Intake = []byte(intake.String)
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
