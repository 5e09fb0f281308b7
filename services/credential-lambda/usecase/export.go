package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/hms-services/services/credential-lambda/models"
)

// ExportTitle heads both the text and PDF exports
const ExportTitle = "HOSPITAL MANAGEMENT SYSTEM - PASSWORD RESET CREDENTIALS"

const (
	resetTimeLayout   = "2006-01-02 15:04:05"
	generatedOnLayout = "Mon Jan 2 2006 15:04:05"

	TextContentType = "text/plain; charset=utf-8"
	PDFContentType  = "application/pdf"
)

// SecurityNotices are printed under "IMPORTANT SECURITY NOTICE:"
var SecurityNotices = []string{
	"Please change this password after your first login.",
	"Do not share these credentials with anyone.",
	"Store this file in a secure location and delete it when no longer needed.",
}

// ExportFilename returns credentials_<username>_<epochMillis>.txt
func ExportFilename(username string, at time.Time) string {
	return fmt.Sprintf("credentials_%s_%d.txt", username, at.UnixMilli())
}

// PDFFilename is ExportFilename with a .pdf extension
func PDFFilename(username string, at time.Time) string {
	return fmt.Sprintf("credentials_%s_%d.pdf", username, at.UnixMilli())
}

// FormatExport renders the plain-text credential file. generatedOn is the
// export time in the server's local zone.
func FormatExport(d models.ResetData, generatedBy string, generatedOn time.Time) string {
	var b strings.Builder
	b.WriteString(ExportTitle + "\n")
	b.WriteString(strings.Repeat("=", 54) + "\n\n")
	fmt.Fprintf(&b, "Username: %s\n", d.Username)
	fmt.Fprintf(&b, "New Password: %s\n", d.NewPassword)
	fmt.Fprintf(&b, "Reset Time: %s\n", d.ResetTime.Format(resetTimeLayout))
	fmt.Fprintf(&b, "Generated By: %s\n\n", generatedBy)
	b.WriteString("IMPORTANT SECURITY NOTICE:\n")
	for _, n := range SecurityNotices {
		b.WriteString("- " + n + "\n")
	}
	fmt.Fprintf(&b, "\nGenerated on: %s\n", generatedOn.Format(generatedOnLayout))
	return b.String()
}
