package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/hms-services/common/config"
	apperrors "github.com/hms-services/common/errors"
	"github.com/hms-services/common/logger"
)

// ============================================================
// CONFIGURATION & SERVICE
// ============================================================

type EmailService struct {
	config  config.SMTPConfig
	devMode bool
	log     *logger.Logger
	send    func(addr, from string, to []string, msg []byte) error
}

// NewEmailService creates a mailer. Without SMTP credentials the service runs
// in dev mode: messages are logged and dropped.
func NewEmailService(cfg config.SMTPConfig) *EmailService {
	s := &EmailService{
		config:  cfg,
		devMode: cfg.Username == "" || cfg.Password == "",
		log:     logger.Default().With("component", "email"),
	}
	s.send = s.deliver
	return s
}

// DevMode reports whether outgoing mail is suppressed
func (s *EmailService) DevMode() bool { return s.devMode }

// ============================================================
// DATA STRUCTURES
// ============================================================

type EmailMessage struct {
	To       []string
	Subject  string
	HTMLBody string
}

// PasswordResetNotice is sent to the account owner after an admin reset.
// It deliberately has no password field.
type PasswordResetNotice struct {
	To        string
	Username  string
	ResetBy   string
	ResetTime time.Time
	LoginURL  string
}

// ============================================================
// SENDING ENGINE
// ============================================================

func (s *EmailService) Send(msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	if s.devMode {
		s.log.Info("Email suppressed (dev mode)", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	if err := s.send(addr, s.config.From, msg.To, s.buildMIME(msg, time.Now())); err != nil {
		return apperrors.EmailError(err)
	}
	return nil
}

// tlsConfig returns the STARTTLS settings, or nil when SMTP_USE_TLS is off
func (s *EmailService) tlsConfig() *tls.Config {
	if !s.config.UseTLS {
		return nil
	}
	return &tls.Config{
		ServerName:         s.config.Host,
		InsecureSkipVerify: s.config.SkipVerify,
		MinVersion:         tls.VersionTLS12,
	}
}

// deliver runs one SMTP conversation. STARTTLS is required when UseTLS is
// set; net/smtp refuses PLAIN auth over a cleartext link to a remote host.
func (s *EmailService) deliver(addr, from string, to []string, msg []byte) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer c.Close()

	if cfg := s.tlsConfig(); cfg != nil {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return fmt.Errorf("%s does not offer STARTTLS", addr)
		}
		if err := c.StartTLS(cfg); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return c.Quit()
}

func (s *EmailService) buildMIME(msg EmailMessage, now time.Time) []byte {
	var body bytes.Buffer
	boundary := fmt.Sprintf("boundary_%d", now.UnixNano())
	fmt.Fprintf(&body, "From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%s\r\n\r\n",
		s.config.FromName, s.config.From, strings.Join(msg.To, ", "), msg.Subject, boundary)
	fmt.Fprintf(&body, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.HTMLBody)
	fmt.Fprintf(&body, "--%s--\r\n", boundary)
	return body.Bytes()
}

// ============================================================
// TEMPLATE BUILDERS
// ============================================================

var resetNoticeTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html><html><body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f5f5f5;">
<table width="100%" border="0" cellspacing="0" cellpadding="0" bgcolor="#f5f5f5"><tr><td align="center" style="padding:40px 0;">
<table width="600" border="0" cellspacing="0" cellpadding="0" bgcolor="#ffffff" style="border-radius:16px;overflow:hidden;">
<tr><td height="8" bgcolor="#0E7C86" style="line-height:8px;font-size:8px;">&nbsp;</td></tr>
<tr><td style="padding:35px 40px;"><h1 style="margin:0;color:#0E7C86;font-size:24px;">HOSPITAL MANAGEMENT SYSTEM</h1></td></tr>
<tr><td style="padding:10px 40px 40px 40px;">
<h2 style="margin:0 0 20px 0;">Your password was reset</h2>
<p>Hello <strong>{{.Username}}</strong>,</p>
<p>An administrator ({{.ResetBy}}) reset your password on {{.ResetTime}}. Your new credentials will be handed to you in person.</p>
<p>You must change the password at your first login{{if .LoginURL}}: <a href="{{.LoginURL}}">{{.LoginURL}}</a>{{end}}.</p>
<p style="margin-top:25px;color:#999999;font-size:13px;">If you did not expect this, contact IT security immediately.</p>
</td></tr></table></td></tr></table></body></html>`))

// BuildPasswordResetHTML renders the reset notice body
func BuildPasswordResetHTML(n PasswordResetNotice) (string, error) {
	var buf bytes.Buffer
	err := resetNoticeTmpl.Execute(&buf, struct {
		Username, ResetBy, ResetTime, LoginURL string
	}{n.Username, n.ResetBy, n.ResetTime.Format("2006-01-02 15:04:05"), n.LoginURL})
	if err != nil {
		return "", fmt.Errorf("render reset notice: %w", err)
	}
	return buf.String(), nil
}

// SendPasswordResetNotice tells the account owner that an admin reset their password
func (s *EmailService) SendPasswordResetNotice(n PasswordResetNotice) error {
	html, err := BuildPasswordResetHTML(n)
	if err != nil {
		return err
	}
	return s.Send(EmailMessage{
		To:       []string{n.To},
		Subject:  "[HMS] Password reset notice",
		HTMLBody: html,
	})
}
