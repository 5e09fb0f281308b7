// Command create-admin seeds an ADMIN account and prints a bearer token for it.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hms-services/common/config"
	"github.com/hms-services/common/db"
	"github.com/hms-services/common/hash"
	"github.com/hms-services/common/jwt"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/password"
	"github.com/hms-services/common/validator"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	fullName := flag.String("name", "System Administrator", "display name")
	email := flag.String("email", "admin@hospital.local", "contact email")
	flag.Parse()

	cfg := config.MustLoad()
	logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	jwt.SetSecret(cfg.JWTSecret)
	config.SetPolicyPath(cfg.SecurityPolicyPath)

	if err := db.InitDBWithConfig(cfg.DB); err != nil {
		logger.Fatal("Failed to init DB", "error", err)
	}
	defer db.CloseDB()

	plain, err := password.NewGenerator(config.LoadSecurityPolicy().GeneratedPasswordLength).Generate()
	if err != nil {
		logger.Fatal("Failed to generate password", "error", err)
	}
	if errs := validator.ValidateStrongPassword(plain); len(errs) > 0 {
		logger.Fatal("Generated password rejected", "errors", strings.Join(errs, "; "))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := upsertAdmin(ctx, *username, *fullName, *email, hash.HashPassword(plain))
	if err != nil {
		logger.Fatal("Failed to create admin", "username", *username, "error", err)
	}

	token, err := jwt.GenerateToken(userID, *username, jwt.RoleAdmin)
	if err != nil {
		logger.Fatal("Failed to sign token", "error", err)
	}

	fmt.Fprintf(os.Stdout, "ADMIN user ready\n  Username: %s\n  Password: %s\n  Token:    %s\n", *username, plain, token)
}

// upsertAdmin inserts the account or resets it to ADMIN/ACTIVE with the new hash
func upsertAdmin(ctx context.Context, username, fullName, email, passwordHash string) (int, error) {
	query := `
		INSERT INTO Users (username, full_name, email, password_hash, role, status, must_change_password)
		VALUES (?, ?, ?, ?, 'ADMIN', 'ACTIVE', 1)
		ON DUPLICATE KEY UPDATE
			password_hash = VALUES(password_hash),
			role = 'ADMIN',
			status = 'ACTIVE',
			must_change_password = 1,
			password_updated_at = UTC_TIMESTAMP()
	`

	var id int
	err := db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, username, fullName, email, passwordHash); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, "SELECT user_id FROM Users WHERE username = ?", username).Scan(&id)
	})
	return id, err
}
