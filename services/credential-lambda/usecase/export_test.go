package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hms-services/services/credential-lambda/models"
)

func TestExportFilename(t *testing.T) {
	at := time.UnixMilli(1792315800123)

	assert.Equal(t, "credentials_nurse.bob_1792315800123.txt", ExportFilename("nurse.bob", at))
	assert.Equal(t, "credentials_nurse.bob_1792315800123.pdf", PDFFilename("nurse.bob", at))
	// username is used verbatim
	assert.Equal(t, "credentials_Dr Ann_1792315800123.txt", ExportFilename("Dr Ann", at))
}

func TestFormatExport(t *testing.T) {
	d := models.ResetData{
		Username:    "nurse.bob",
		NewPassword: "Kx7@pQ2m9Ra!",
		ResetTime:   time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
	generatedOn := time.Date(2026, 10, 18, 9, 31, 5, 0, time.UTC)

	want := strings.Join([]string{
		"HOSPITAL MANAGEMENT SYSTEM - PASSWORD RESET CREDENTIALS",
		"======================================================",
		"",
		"Username: nurse.bob",
		"New Password: Kx7@pQ2m9Ra!",
		"Reset Time: 2026-10-18 09:30:00",
		"Generated By: admin.jane",
		"",
		"IMPORTANT SECURITY NOTICE:",
		"- Please change this password after your first login.",
		"- Do not share these credentials with anyone.",
		"- Store this file in a secure location and delete it when no longer needed.",
		"",
		"Generated on: Sun Oct 18 2026 09:31:05",
		"",
	}, "\n")

	assert.Equal(t, want, FormatExport(d, "admin.jane", generatedOn))
}
