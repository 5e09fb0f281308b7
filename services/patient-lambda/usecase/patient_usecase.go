package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/hms-services/common/db"
	apperrors "github.com/hms-services/common/errors"
	"github.com/hms-services/common/idgen"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/metrics"
	"github.com/hms-services/common/sanitizer"
	"github.com/hms-services/common/validator"
	"github.com/hms-services/services/patient-lambda/models"
)

// maxCodeAttempts bounds retries when a generated patient code collides
const maxCodeAttempts = 3

// PatientRepository is the persistence the registration flow needs
type PatientRepository interface {
	Create(ctx context.Context, p *models.Patient) (int, error)
	// FindByCode returns nil, nil when absent
	FindByCode(ctx context.Context, code string) (*models.Patient, error)
}

// PatientUseCase handles patient registration
type PatientUseCase struct {
	repo   PatientRepository
	ids    *idgen.Generator
	prefix string
	log    *logger.Logger

	now func() time.Time
}

// NewPatientUseCase creates the usecase. An empty prefix uses idgen's default.
func NewPatientUseCase(repo PatientRepository, prefix string) *PatientUseCase {
	return &PatientUseCase{
		repo:   repo,
		ids:    idgen.NewGenerator(),
		prefix: prefix,
		log:    logger.Default().With("component", "patient"),
		now:    time.Now,
	}
}

// Register sanitizes and validates a JSON registration body, then stores the
// patient under a fresh display code.
func (uc *PatientUseCase) Register(ctx context.Context, body []byte) (*models.Patient, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, apperrors.InvalidPayload("Request body must be a JSON object")
	}

	clean := sanitizer.SanitizeInput(raw)

	p, fields := uc.validate(clean)
	if len(fields) > 0 {
		metrics.RecordValidationFailures(fields)
		return nil, apperrors.FieldErrors(fields)
	}

	if intake, ok := raw[models.FieldIntake]; ok && intake != nil {
		out, err := uc.sanitizeIntake(body)
		if err != nil {
			return nil, apperrors.FieldErrors(map[string][]string{
				models.FieldIntake: {"Intake must be a JSON object"},
			})
		}
		p.Intake = out
	}

	p.CreatedAt = uc.now().UTC()
	if err := uc.insert(ctx, p); err != nil {
		return nil, err
	}

	metrics.PatientsRegisteredTotal.Inc()
	uc.log.WithContext(ctx).LogEvent(logger.EventLog{
		Event:    "PATIENT_REGISTERED",
		Entity:   "Patient",
		EntityID: p.Code,
		Action:   "create",
		Success:  true,
	})
	return p, nil
}

// validate checks the sanitized payload. Rules run on the unescaped text so
// that an apostrophe in a name is not judged by its entity form; the stored
// values stay escaped.
func (uc *PatientUseCase) validate(clean map[string]interface{}) (*models.Patient, map[string][]string) {
	fields := map[string][]string{}
	add := func(field, msg string) {
		if msg != "" {
			fields[field] = append(fields[field], msg)
		}
	}

	name := text(clean, models.FieldFullName)
	add(models.FieldFullName, validator.GetFullNameError(html.UnescapeString(name)))

	email := text(clean, models.FieldEmail)
	if email != "" {
		add(models.FieldEmail, validator.GetEmailError(html.UnescapeString(email)))
	}

	phone := text(clean, models.FieldPhone)
	add(models.FieldPhone, validator.GetPhoneError(html.UnescapeString(phone)))

	dob := html.UnescapeString(text(clean, models.FieldDateOfBirth))
	add(models.FieldDateOfBirth, validator.GetBirthDateError(dob))

	for _, key := range []string{models.FieldFullName, models.FieldEmail, models.FieldPhone, models.FieldDateOfBirth, models.FieldGender, models.FieldAddress} {
		if v, ok := clean[key]; ok && v != nil {
			if _, isString := v.(string); !isString {
				add(key, "Must be a string")
			}
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}

	birth, _ := validator.ParseBirthDate(dob)
	return &models.Patient{
		FullName:    name,
		Email:       email,
		Phone:       validator.CleanPhone(html.UnescapeString(phone)),
		DateOfBirth: birth,
		Age:         validator.AgeFrom(birth, uc.now()),
		Gender:      strings.ToUpper(text(clean, models.FieldGender)),
		Address:     text(clean, models.FieldAddress),
	}, nil
}

// sanitizeIntake re-sanitizes the raw intake object keeping its key order
func (uc *PatientUseCase) sanitizeIntake(body []byte) (json.RawMessage, error) {
	var envelope struct {
		Intake json.RawMessage `json:"intake"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	out, err := sanitizer.SanitizeJSON(envelope.Intake)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(out), nil
}

func (uc *PatientUseCase) insert(ctx context.Context, p *models.Patient) error {
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		p.Code = uc.ids.Generate(uc.prefix)

		id, err := uc.repo.Create(ctx, p)
		if err == nil {
			p.ID = id
			return nil
		}
		if !db.IsDuplicateEntry(err) {
			return apperrors.DatabaseError(err)
		}
		lastErr = err
		uc.log.WithContext(ctx).Warn("Patient code collision, retrying", "code", p.Code, "attempt", attempt+1)
	}
	return apperrors.Conflict(lastErr,
		fmt.Sprintf("Could not allocate a unique patient code after %d attempts", maxCodeAttempts))
}

// GetByCode returns a patient by display code
func (uc *PatientUseCase) GetByCode(ctx context.Context, code string) (*models.Patient, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.MissingField("code")
	}
	p, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if p == nil {
		return nil, apperrors.NotFound("Patient")
	}
	p.Age = validator.AgeFrom(p.DateOfBirth, uc.now())
	return p, nil
}

// CheckPassword reports every failed strength rule in order
func (uc *PatientUseCase) CheckPassword(password string) models.PasswordCheckResponse {
	errs := validator.ValidateStrongPassword(password)
	return models.PasswordCheckResponse{Strong: len(errs) == 0, Errors: errs}
}

func text(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
