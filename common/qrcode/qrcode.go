package qrcode

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// Standard sizes in pixels
const (
	SizeSmall    = 150
	SizeStandard = 256
)

// GeneratePNG encodes text as a PNG QR code with Medium error correction.
func GeneratePNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	if size <= 0 {
		size = SizeStandard
	}

	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pngBytes, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR to PNG: %w", err)
	}
	return pngBytes, nil
}

// LoginURL returns the login page URL pre-filled with a username.
// Only public data goes into a QR code; never the password.
func LoginURL(base, username string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid login url: %w", err)
	}
	if username != "" {
		q := u.Query()
		q.Set("username", username)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
