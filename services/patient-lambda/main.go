package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hms-services/common/config"
	"github.com/hms-services/common/db"
	"github.com/hms-services/common/jwt"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/services/patient-lambda/handler"
)

var patientHandler *handler.PatientHandler

func init() {
	cfg := config.MustLoad()
	logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	jwt.SetSecret(cfg.JWTSecret)
	config.SetPolicyPath(cfg.SecurityPolicyPath)

	if err := db.InitDBWithConfig(cfg.DB); err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}

	patientHandler = handler.NewDefaultPatientHandler()
}

func main() {
	lambda.Start(patientHandler.Route)
}
