package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hms-services/common/config"
	apperrors "github.com/hms-services/common/errors"
	"github.com/hms-services/common/jwt"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/response"
	"github.com/hms-services/services/patient-lambda/models"
	"github.com/hms-services/services/patient-lambda/repository"
	"github.com/hms-services/services/patient-lambda/usecase"
)

// Roles allowed per operation. Front desk registers; clinical staff read records.
var (
	registerRoles = []string{jwt.RoleAdmin, jwt.RoleStaff, jwt.RoleNurse}
	lookupRoles   = []string{jwt.RoleAdmin, jwt.RoleDoctor, jwt.RoleNurse}
)

// PatientHandler handles patient registration requests
type PatientHandler struct {
	useCase *usecase.PatientUseCase
}

// NewPatientHandler creates a handler over an explicit usecase
func NewPatientHandler(uc *usecase.PatientUseCase) *PatientHandler {
	return &PatientHandler{useCase: uc}
}

// NewDefaultPatientHandler wires the handler against MySQL and the security policy
func NewDefaultPatientHandler() *PatientHandler {
	policy := config.LoadSecurityPolicy()
	return NewPatientHandler(usecase.NewPatientUseCase(repository.NewPatientRepository(), policy.PatientIDPrefix))
}

// HandleRegister - POST /api/patients (ADMIN, STAFF, NURSE)
func (h *PatientHandler) HandleRegister(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, err := jwt.Authorize(jwt.TokenFromHeaders(request.Headers, ""), registerRoles...); err != nil {
		return createAppErrorResponse(ctx, err)
	}

	patient, err := h.useCase.Register(ctx, []byte(request.Body))
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return createSuccessResponse(http.StatusCreated, patient)
}

// HandleGetPatient - GET /api/patients/detail?code= (ADMIN, DOCTOR, NURSE)
func (h *PatientHandler) HandleGetPatient(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, err := jwt.Authorize(jwt.TokenFromHeaders(request.Headers, ""), lookupRoles...); err != nil {
		return createAppErrorResponse(ctx, err)
	}

	patient, err := h.useCase.GetByCode(ctx, request.QueryStringParameters["code"])
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return createSuccessResponse(http.StatusOK, patient)
}

// HandleValidatePassword - POST /api/validate/password
// Always 200; the body says whether the password is strong and why not
func (h *PatientHandler) HandleValidatePassword(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.PasswordCheckRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}
	return createSuccessResponse(http.StatusOK, h.useCase.CheckPassword(req.Password))
}

func createSuccessResponse(statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	return response.JSON(statusCode, response.SuccessResponse(data)), nil
}

func createErrorResponse(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	return response.JSON(statusCode, response.ErrorResponse(message)), nil
}

func createAppErrorResponse(ctx context.Context, err error) (events.APIGatewayProxyResponse, error) {
	appErr := apperrors.ToAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithContext(ctx).WithError(err).Error("Patient request failed", "code", appErr.Code)
		return createErrorResponse(appErr.HTTPStatus, "Internal server error")
	}

	body := response.APIResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
	}
	if len(appErr.Fields) > 0 {
		body.Fields = appErr.Fields
	}
	return response.JSON(appErr.HTTPStatus, body), nil
}
