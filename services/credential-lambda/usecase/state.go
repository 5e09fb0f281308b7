package usecase

import (
	"fmt"

	apperrors "github.com/hms-services/common/errors"
	"github.com/hms-services/services/credential-lambda/models"
)

// StateMachine tracks one credential export.
//
//	NO_CREDENTIALS --Generate--> UNSAVED_CREDENTIALS --Acknowledge--> CONFIRMED_RESET
//	UNSAVED/CONFIRMED --ConfirmReset(true)--> NO_CREDENTIALS --> UNSAVED_CREDENTIALS
//
// Export never changes state. Not safe for concurrent use; callers hold the
// owning session's lock.
type StateMachine struct {
	state models.CredentialState
	data  *models.ResetData

	// OnTransition, when set, is called after every state change
	OnTransition func(from, to models.CredentialState)
}

// NewStateMachine returns a machine in NO_CREDENTIALS
func NewStateMachine() *StateMachine {
	return &StateMachine{state: models.StateNoCredentials}
}

// State returns the current state
func (m *StateMachine) State() models.CredentialState { return m.state }

// GuardActive reports whether leaving the page must be confirmed.
// Only unsaved credentials arm the guard.
func (m *StateMachine) GuardActive() bool { return m.state == models.StateUnsaved }

// Data returns a copy of the current ResetData, or nil in NO_CREDENTIALS
func (m *StateMachine) Data() *models.ResetData {
	if m.data == nil {
		return nil
	}
	d := *m.data
	return &d
}

// Generate stores freshly generated credentials
func (m *StateMachine) Generate(d models.ResetData) error {
	if m.state != models.StateNoCredentials {
		return apperrors.InvalidState(fmt.Sprintf("cannot generate credentials in state %s", m.state))
	}
	if d.Username == "" || d.NewPassword == "" {
		return apperrors.InvalidInput("resetData", "username and password are required")
	}
	m.data = &d
	m.set(models.StateUnsaved)
	return nil
}

// ExportData returns the credentials to serialize
func (m *StateMachine) ExportData() (models.ResetData, error) {
	if m.data == nil {
		return models.ResetData{}, apperrors.NoCredentials()
	}
	return *m.data, nil
}

// Acknowledge records that the admin saved the exported file
func (m *StateMachine) Acknowledge() error {
	switch m.state {
	case models.StateUnsaved:
		m.set(models.StateConfirmed)
		return nil
	case models.StateConfirmed:
		return nil
	default:
		return apperrors.NoCredentials()
	}
}

// ConfirmReset discards the current credentials and installs the ones produced
// by regenerate. confirmed must be true. If regenerate fails the current
// credentials are kept.
func (m *StateMachine) ConfirmReset(confirmed bool, regenerate func() (models.ResetData, error)) error {
	if !confirmed {
		return apperrors.ResetNotConfirmed()
	}
	if m.state == models.StateNoCredentials {
		return apperrors.NoCredentials()
	}

	next, err := regenerate()
	if err != nil {
		return err
	}

	m.clear()
	return m.Generate(next)
}

func (m *StateMachine) clear() {
	m.data = nil
	m.set(models.StateNoCredentials)
}

func (m *StateMachine) set(to models.CredentialState) {
	from := m.state
	m.state = to
	if m.OnTransition != nil && from != to {
		m.OnTransition(from, to)
	}
}
