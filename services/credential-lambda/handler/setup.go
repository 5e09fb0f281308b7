package handler

import (
	"github.com/hms-services/common/config"
	"github.com/hms-services/common/email"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/password"
	"github.com/hms-services/services/credential-lambda/repository"
	"github.com/hms-services/services/credential-lambda/usecase"
)

// NewDefaultCredentialHandler wires the handler against MySQL, SMTP and the
// security policy. db.InitDB must have been called.
func NewDefaultCredentialHandler(cfg *config.AppConfig) *CredentialHandler {
	policy := config.LoadSecurityPolicy()

	uc := usecase.NewCredentialUseCase(
		repository.NewUserRepository(),
		usecase.NewSessionStore(policy.SessionTTL()),
		password.NewGenerator(policy.GeneratedPasswordLength),
		email.NewEmailService(cfg.SMTP),
		cfg.LoginURL,
	)
	logger.Info("Credential services initialized",
		"session_ttl", policy.SessionTTL().String(),
		"password_length", policy.GeneratedPasswordLength)
	return NewCredentialHandler(uc)
}

// UseCase exposes the usecase for schedulers
func (h *CredentialHandler) UseCase() *usecase.CredentialUseCase { return h.useCase }
