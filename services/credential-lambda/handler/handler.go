package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	apperrors "github.com/hms-services/common/errors"
	"github.com/hms-services/common/jwt"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/response"
	"github.com/hms-services/common/scheduler"
	"github.com/hms-services/services/credential-lambda/models"
	"github.com/hms-services/services/credential-lambda/usecase"
)

// TokenCookie carries the admin JWT for browser page loads
const TokenCookie = "hms_token"

// CredentialHandler serves the admin password-reset and credential export API
type CredentialHandler struct {
	useCase *usecase.CredentialUseCase
	sweeper *scheduler.SessionCleanupScheduler
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(uc *usecase.CredentialUseCase) *CredentialHandler {
	return &CredentialHandler{
		useCase: uc,
		sweeper: scheduler.NewSessionCleanupScheduler(uc.Store(), 0),
	}
}

// ============================================================
// HandleReset - POST /api/admin/credentials/reset
// Generates a new password for {username} and opens an export session
// ============================================================
func (h *CredentialHandler) HandleReset(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claims, denied, ok := requireAdmin(ctx, request)
	if !ok {
		return denied, nil
	}

	var req models.ResetRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}

	session, err := h.useCase.StartReset(ctx, claims.Username, req.Username)
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return createSuccessResponse(http.StatusCreated, session)
}

// HandleStatus - GET /api/admin/credentials/status?session=
func (h *CredentialHandler) HandleStatus(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, denied, ok := requireAdmin(ctx, request); !ok {
		return denied, nil
	}

	session, err := h.useCase.Status(ctx, request.QueryStringParameters["session"])
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return createSuccessResponse(http.StatusOK, session)
}

// HandleDownload - GET /api/admin/credentials/download?session=
// Returns credentials_<username>_<epochMillis>.txt as an attachment
func (h *CredentialHandler) HandleDownload(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, denied, ok := requireAdmin(ctx, request); !ok {
		return denied, nil
	}

	file, err := h.useCase.Export(ctx, request.QueryStringParameters["session"])
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return response.Attachment(file.Filename, file.ContentType, file.Data, false), nil
}

// HandleDownloadPDF - GET /api/admin/credentials/download-pdf?session=
func (h *CredentialHandler) HandleDownloadPDF(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, denied, ok := requireAdmin(ctx, request); !ok {
		return denied, nil
	}

	file, err := h.useCase.ExportPDF(ctx, request.QueryStringParameters["session"])
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return response.Attachment(file.Filename, file.ContentType, file.Data, true), nil
}

// HandleAcknowledge - POST /api/admin/credentials/acknowledge {sessionId}
func (h *CredentialHandler) HandleAcknowledge(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, denied, ok := requireAdmin(ctx, request); !ok {
		return denied, nil
	}

	var req models.SessionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}

	session, err := h.useCase.Acknowledge(ctx, req.SessionID)
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return createSuccessResponse(http.StatusOK, session)
}

// HandleConfirmReset - POST /api/admin/credentials/confirm-reset {sessionId, confirm}
// Discards the current credentials and issues new ones
func (h *CredentialHandler) HandleConfirmReset(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, denied, ok := requireAdmin(ctx, request); !ok {
		return denied, nil
	}

	var req models.ConfirmResetRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(http.StatusBadRequest, "Invalid request body")
	}

	session, err := h.useCase.ConfirmReset(ctx, req.SessionID, req.Confirm)
	if err != nil {
		return createAppErrorResponse(ctx, err)
	}
	return createSuccessResponse(http.StatusOK, session)
}

// HandlePage - GET /admin/credentials?session=
// Renders the credential page with the navigation guard
func (h *CredentialHandler) HandlePage(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, denied, ok := requireAdmin(ctx, request); !ok {
		return denied, nil
	}

	session, err := h.useCase.Status(ctx, request.QueryStringParameters["session"])
	if err != nil {
		appErr := apperrors.ToAppError(err)
		return response.HTML(appErr.HTTPStatus, renderErrorPage(appErr.Message)), nil
	}

	page, err := RenderPage(session)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("Credential page render failed")
		return response.HTML(http.StatusInternalServerError, renderErrorPage("Failed to render page")), nil
	}
	return response.HTML(http.StatusOK, page), nil
}

// ============================================================
// Helpers
// ============================================================

// requireAdmin returns the admin's claims, or a ready 401/403 response.
// Browser page loads carry the token in the TokenCookie cookie.
func requireAdmin(ctx context.Context, request events.APIGatewayProxyRequest) (*jwt.Claims, events.APIGatewayProxyResponse, bool) {
	claims, err := jwt.Authorize(jwt.TokenFromHeaders(request.Headers, TokenCookie), jwt.RoleAdmin)
	if err != nil {
		resp, _ := createAppErrorResponse(ctx, err)
		return nil, resp, false
	}
	return claims, events.APIGatewayProxyResponse{}, true
}

func createSuccessResponse(statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	return response.JSON(statusCode, response.SuccessResponse(data)), nil
}

func createErrorResponse(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	return response.JSON(statusCode, response.ErrorResponse(message)), nil
}

// createAppErrorResponse maps an error to its HTTP status. Internal details
// are logged, never returned.
func createAppErrorResponse(ctx context.Context, err error) (events.APIGatewayProxyResponse, error) {
	appErr := apperrors.ToAppError(err)

	body := response.APIResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
	}
	if len(appErr.Fields) > 0 {
		body.Fields = appErr.Fields
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithContext(ctx).WithError(err).Error("Credential request failed", "code", appErr.Code)
		body.Error = "Internal server error"
		body.Fields = nil
	}
	return response.JSON(appErr.HTTPStatus, body), nil
}
