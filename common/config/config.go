package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be parsed
var ErrParsingConfig = errors.New("failed to parse configuration")

// AppConfig holds process configuration read from the environment
type AppConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"hms-services"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`

	DB   DBConfig
	SMTP SMTPConfig

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-only-secret-change-me-0f3a9c1e7b5d4a2c8e6f"`

	// Login page printed on exported credentials and encoded in the PDF QR code
	LoginURL string `env:"LOGIN_URL" envDefault:"http://localhost:8080/login"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	SecurityPolicyPath string `env:"SECURITY_POLICY_PATH" envDefault:"config/security_policy.json"`
}

// DBConfig holds MySQL connection settings
type DBConfig struct {
	Server   string `env:"DB_SERVER" envDefault:"127.0.0.1"`
	Port     int    `env:"DB_PORT" envDefault:"3306"`
	Database string `env:"DB_NAME" envDefault:"HospitalManagement"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASSWORD"`
}

// SMTPConfig holds outgoing mail settings. Empty credentials put the mailer
// in dev mode (messages are logged, not sent).
type SMTPConfig struct {
	Host       string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port       string `env:"SMTP_PORT" envDefault:"587"`
	Username   string `env:"SMTP_USERNAME"`
	Password   string `env:"SMTP_PASSWORD"`
	From       string `env:"SMTP_FROM" envDefault:"noreply@hospital.local"`
	FromName   string `env:"SMTP_FROM_NAME" envDefault:"Hospital Management System"`
	UseTLS     bool   `env:"SMTP_USE_TLS" envDefault:"true"`
	SkipVerify bool   `env:"SMTP_SKIP_VERIFY" envDefault:"false"`
}

var (
	appConfig     *AppConfig
	appConfigErr  error
	appConfigOnce sync.Once
)

// Load reads .env (if present) once and parses the environment into AppConfig.
// The result is cached for the life of the process.
func Load() (*AppConfig, error) {
	appConfigOnce.Do(func() {
		// a missing .env file is fine, the process environment still applies
		_ = godotenv.Load()
		appConfig, appConfigErr = Parse(env.Options{})
	})
	return appConfig, appConfigErr
}

// Parse parses AppConfig with explicit options. Tests pass a fixed
// Environment map instead of touching the process environment.
func Parse(opts env.Options) (*AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	if cfg.DB.Port <= 0 || cfg.DB.Port > 65535 {
		return nil, fmt.Errorf("%w: DB_PORT out of range: %d", ErrParsingConfig, cfg.DB.Port)
	}
	return &cfg, nil
}

// MustLoad works like Load but panics on failure
func MustLoad() *AppConfig {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
	return cfg
}
