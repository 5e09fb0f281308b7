package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hms-services/common/config"
	"github.com/hms-services/common/db"
	"github.com/hms-services/common/jwt"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/services/credential-lambda/handler"
)

var credentialHandler *handler.CredentialHandler

func init() {
	cfg := config.MustLoad()
	logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	jwt.SetSecret(cfg.JWTSecret)
	config.SetPolicyPath(cfg.SecurityPolicyPath)

	if err := db.InitDBWithConfig(cfg.DB); err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}

	credentialHandler = handler.NewDefaultCredentialHandler(cfg)
}

// Sessions live in this instance's memory, so deploy with reserved
// concurrency 1 or pin admins to one instance.
func main() {
	lambda.Start(credentialHandler.Route)
}
