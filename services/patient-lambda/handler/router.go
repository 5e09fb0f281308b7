package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hms-services/common/response"
)

// Route dispatches a Lambda request to the matching handler
func (h *PatientHandler) Route(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := request.Path
	method := request.HTTPMethod

	switch {
	case path == "/api/patients" && method == http.MethodPost:
		return h.HandleRegister(ctx, request)

	case path == "/api/patients/detail" && method == http.MethodGet:
		return h.HandleGetPatient(ctx, request)

	case path == "/api/validate/password" && method == http.MethodPost:
		return h.HandleValidatePassword(ctx, request)

	default:
		return response.JSON(http.StatusNotFound, response.ErrorResponse("Not Found")), nil
	}
}
