package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hms-services/common/response"
)

// Route dispatches a Lambda request. Expired sessions are swept first: a
// frozen Lambda instance cannot rely on a background ticker, and plaintext
// passwords must not outlive their session TTL.
func (h *CredentialHandler) Route(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.sweeper.RunOnce()

	path := request.Path
	method := request.HTTPMethod

	switch {
	case path == "/api/admin/credentials/reset" && method == http.MethodPost:
		return h.HandleReset(ctx, request)

	case path == "/api/admin/credentials/status" && method == http.MethodGet:
		return h.HandleStatus(ctx, request)

	case path == "/api/admin/credentials/download" && method == http.MethodGet:
		return h.HandleDownload(ctx, request)

	case path == "/api/admin/credentials/download-pdf" && method == http.MethodGet:
		return h.HandleDownloadPDF(ctx, request)

	case path == "/api/admin/credentials/acknowledge" && method == http.MethodPost:
		return h.HandleAcknowledge(ctx, request)

	case path == "/api/admin/credentials/confirm-reset" && method == http.MethodPost:
		return h.HandleConfirmReset(ctx, request)

	case path == "/admin/credentials" && method == http.MethodGet:
		return h.HandlePage(ctx, request)

	default:
		return response.JSON(http.StatusNotFound, response.ErrorResponse("Not Found")), nil
	}
}
