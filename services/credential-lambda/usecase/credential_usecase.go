package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hms-services/common/email"
	apperrors "github.com/hms-services/common/errors"
	"github.com/hms-services/common/hash"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/metrics"
	"github.com/hms-services/common/pdf"
	"github.com/hms-services/common/qrcode"
	"github.com/hms-services/common/validator"
	"github.com/hms-services/services/credential-lambda/models"
)

// UserRepository is the persistence the reset flow needs
type UserRepository interface {
	// FindByUsername returns nil, nil when the user does not exist
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error
}

// PasswordGenerator produces new plaintext passwords
type PasswordGenerator interface {
	Generate() (string, error)
}

// Notifier tells account owners their password was reset
type Notifier interface {
	SendPasswordResetNotice(n email.PasswordResetNotice) error
}

// CredentialUseCase drives admin password resets and credential export
type CredentialUseCase struct {
	userRepo  UserRepository
	store     *SessionStore
	passwords PasswordGenerator
	notifier  Notifier
	loginURL  string
	log       *logger.Logger

	now func() time.Time
}

// NewCredentialUseCase wires the reset flow. notifier may be nil.
func NewCredentialUseCase(repo UserRepository, store *SessionStore, passwords PasswordGenerator, notifier Notifier, loginURL string) *CredentialUseCase {
	return &CredentialUseCase{
		userRepo:  repo,
		store:     store,
		passwords: passwords,
		notifier:  notifier,
		loginURL:  loginURL,
		log:       logger.Default().With("component", "credential"),
		now:       time.Now,
	}
}

// Store exposes the session store to the cleanup scheduler
func (uc *CredentialUseCase) Store() *SessionStore { return uc.store }

// StartReset generates and persists a new password for username and opens
// an export session in UNSAVED_CREDENTIALS.
func (uc *CredentialUseCase) StartReset(ctx context.Context, adminName, username string) (*models.SessionResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.MissingField("username")
	}

	user, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User")
	}

	data, err := uc.newCredentials(ctx, user, adminName)
	if err != nil {
		return nil, err
	}

	s, superseded := uc.store.Create(user, adminName, uc.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Generate(data); err != nil {
		return nil, err
	}
	if len(superseded) > 0 {
		uc.log.WithContext(ctx).Info("Earlier credential sessions superseded",
			"user_id", user.ID, "sessions", strings.Join(superseded, ","))
	}

	uc.log.WithContext(ctx).LogEvent(logger.EventLog{
		Event:    "PASSWORD_RESET",
		Actor:    adminName,
		Entity:   "User",
		EntityID: strconv.Itoa(user.ID),
		Action:   "generate",
		Success:  true,
		Metadata: map[string]interface{}{"session_id": s.ID},
	})
	return s.view(), nil
}

// Status returns the session state, guard flag and credentials
func (uc *CredentialUseCase) Status(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	s, err := uc.lockSession(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.view(), nil
}

// Export renders the text credential file. State is unchanged.
func (uc *CredentialUseCase) Export(ctx context.Context, sessionID string) (*models.ExportFile, error) {
	s, err := uc.lockSession(sessionID)
	if err != nil {
		return nil, err
	}
	data, err := s.machine.ExportData()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	now := uc.now()
	metrics.CredentialExportsTotal.WithLabelValues("txt").Inc()
	return &models.ExportFile{
		Filename:    ExportFilename(data.Username, now),
		ContentType: TextContentType,
		Data:        []byte(FormatExport(data, s.GeneratedBy, now.Local())),
	}, nil
}

// ExportPDF renders the credential sheet as PDF with a login QR code
func (uc *CredentialUseCase) ExportPDF(ctx context.Context, sessionID string) (*models.ExportFile, error) {
	s, err := uc.lockSession(sessionID)
	if err != nil {
		return nil, err
	}
	data, err := s.machine.ExportData()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	loginURL, err := qrcode.LoginURL(uc.loginURL, data.Username)
	if err != nil {
		loginURL = uc.loginURL
	}
	qr, err := qrcode.GeneratePNG(loginURL, qrcode.SizeStandard)
	if err != nil {
		// the sheet is still useful without a QR code
		uc.log.WithError(err).Warn("Login QR code generation failed", "session_id", sessionID)
	}

	now := uc.now()
	out, err := pdf.GenerateCredentialPDF(pdf.CredentialPDFData{
		Title:          ExportTitle,
		Username:       data.Username,
		Password:       data.NewPassword,
		ResetTime:      data.ResetTime,
		GeneratedBy:    s.GeneratedBy,
		LoginURL:       loginURL,
		Notices:        SecurityNotices,
		GeneratedOn:    now.Local(),
		QRCodePngBytes: qr,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to render credential PDF")
	}

	metrics.CredentialExportsTotal.WithLabelValues("pdf").Inc()
	return &models.ExportFile{
		Filename:    PDFFilename(data.Username, now),
		ContentType: PDFContentType,
		Data:        out,
	}, nil
}

// Acknowledge marks the exported credentials as saved, disarming the guard
func (uc *CredentialUseCase) Acknowledge(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	s, err := uc.lockSession(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	if err := s.machine.Acknowledge(); err != nil {
		return nil, err
	}
	return s.view(), nil
}

// ConfirmReset discards the current credentials and immediately issues new
// ones. Requires confirm == true.
func (uc *CredentialUseCase) ConfirmReset(ctx context.Context, sessionID string, confirm bool) (*models.SessionResponse, error) {
	s, err := uc.lockSession(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	user := &models.User{ID: s.UserID, Username: s.Username, Email: s.Email}
	err = s.machine.ConfirmReset(confirm, func() (models.ResetData, error) {
		return uc.newCredentials(ctx, user, s.GeneratedBy)
	})
	if err != nil {
		return nil, err
	}
	// the new password is live in the database; give the admin a full TTL to save it
	uc.store.Extend(s, uc.now())

	uc.log.WithContext(ctx).LogEvent(logger.EventLog{
		Event:    "PASSWORD_RESET",
		Actor:    s.GeneratedBy,
		Entity:   "User",
		EntityID: strconv.Itoa(s.UserID),
		Action:   "regenerate",
		Success:  true,
		Metadata: map[string]interface{}{"session_id": s.ID},
	})
	return s.view(), nil
}

// newCredentials generates a password, stores its hash and notifies the owner
func (uc *CredentialUseCase) newCredentials(ctx context.Context, user *models.User, adminName string) (models.ResetData, error) {
	plain, err := uc.passwords.Generate()
	if err != nil {
		return models.ResetData{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to generate password")
	}
	if violations := validator.ValidateStrongPassword(plain); len(violations) > 0 {
		return models.ResetData{}, apperrors.WeakPassword(violations)
	}

	if err := uc.userRepo.UpdatePasswordHash(ctx, user.ID, hash.HashPassword(plain)); err != nil {
		return models.ResetData{}, apperrors.DatabaseError(err)
	}

	data := models.ResetData{
		Username:    user.Username,
		NewPassword: plain,
		ResetTime:   uc.now(),
	}
	uc.notify(ctx, user, adminName, data.ResetTime)
	return data, nil
}

func (uc *CredentialUseCase) notify(ctx context.Context, user *models.User, adminName string, at time.Time) {
	if uc.notifier == nil || user.Email == "" {
		return
	}
	err := uc.notifier.SendPasswordResetNotice(email.PasswordResetNotice{
		To:        user.Email,
		Username:  user.Username,
		ResetBy:   adminName,
		ResetTime: at,
		LoginURL:  uc.loginURL,
	})
	if err != nil {
		uc.log.WithContext(ctx).WithError(err).Warn("Password reset notice not sent", "user_id", user.ID)
	}
}

func (uc *CredentialUseCase) session(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.MissingField("sessionId")
	}
	s := uc.store.Get(id, uc.now())
	if s == nil {
		return nil, apperrors.SessionNotFound()
	}
	return s, nil
}

// lockSession returns the session with its mutex held. A newer reset for the
// same user may drop the session while we wait for the lock, so liveness is
// checked again once it is held.
func (uc *CredentialUseCase) lockSession(id string) (*Session, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if !uc.store.Live(s, uc.now()) {
		s.mu.Unlock()
		return nil, apperrors.SessionNotFound()
	}
	return s, nil
}
