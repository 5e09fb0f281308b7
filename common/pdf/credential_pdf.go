package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CredentialPDFData holds what is printed on a credential hand-over sheet
type CredentialPDFData struct {
	Title       string
	Username    string
	Password    string
	ResetTime   time.Time
	GeneratedBy string
	LoginURL    string
	Notices     []string
	GeneratedOn time.Time
	// QR code PNG of the login URL (raw bytes, not base64)
	QRCodePngBytes []byte
}

// GenerateCredentialPDF renders a one-page A4 credential sheet
func GenerateCredentialPDF(data CredentialPDFData) ([]byte, error) {
	if data.Username == "" || data.Password == "" {
		return nil, fmt.Errorf("credential pdf requires username and password")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; translate UTF-8 input
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(data.Title, true)
	pdf.SetCreator("Hospital Management System", true)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(14, 124, 134)
	pdf.Rect(0, 0, 210, 8, "F")
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(14, 124, 134)
	pdf.MultiCell(0, 8, tr(data.Title), "", "C", false)
	pdf.Ln(4)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	// Credential rows
	pdf.SetTextColor(0, 0, 0)
	rows := [][2]string{
		{"Username:", data.Username},
		{"New Password:", data.Password},
		{"Reset Time:", data.ResetTime.Format("2006-01-02 15:04:05")},
		{"Generated By:", data.GeneratedBy},
	}
	for _, r := range rows {
		pdf.SetX(20)
		pdf.SetFont("Arial", "", 13)
		pdf.CellFormat(45, 10, r[0], "", 0, "L", false, 0, "")
		if r[0] == "New Password:" {
			pdf.SetFont("Courier", "B", 16)
		} else {
			pdf.SetFont("Arial", "B", 13)
		}
		pdf.CellFormat(0, 10, tr(r[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Login QR code, right aligned next to the notice
	if len(data.QRCodePngBytes) > 0 {
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("login_qr", imgOpts, bytes.NewReader(data.QRCodePngBytes))
		y := pdf.GetY()
		pdf.ImageOptions("login_qr", 140, y, 50, 50, false, imgOpts, 0, "")
		pdf.SetXY(20, y)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(115, 6, tr("Scan to open the login page:\n"+data.LoginURL), "", "L", false)
		pdf.SetY(y + 55)
	}

	// Notice
	pdf.SetX(20)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(180, 30, 30)
	pdf.CellFormat(0, 8, "IMPORTANT SECURITY NOTICE:", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 11)
	for _, n := range data.Notices {
		pdf.SetX(24)
		pdf.MultiCell(166, 6, tr("- "+n), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, "Generated on: "+data.GeneratedOn.Format("Mon Jan 2 2006 15:04:05"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
