package main

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/hms-services/common/jwt"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/metrics"
	"github.com/hms-services/common/response"
	credentialHandler "github.com/hms-services/services/credential-lambda/handler"
	patientHandler "github.com/hms-services/services/patient-lambda/handler"
)

// lambdaFunc is the signature every service handler shares
type lambdaFunc func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// maxBodyBytes caps request bodies on the local server
const maxBodyBytes = 1 << 20

// adaptRequest converts http.Request to APIGatewayProxyRequest
func adaptRequest(r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}
	defer r.Body.Close()

	headers := make(map[string]string)
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	queryParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	req := events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               headers,
		QueryStringParameters: queryParams,
		Body:                  string(body),
	}
	req.RequestContext.RequestID = requestIDFrom(r.Context())
	req.RequestContext.Identity.SourceIP = clientIP(r)
	return req, nil
}

// writeResponse writes APIGatewayProxyResponse to http.ResponseWriter.
// CORS headers are owned by the rs/cors middleware and skipped here.
func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for key, value := range resp.Headers {
		if strings.HasPrefix(key, "Access-Control-") {
			continue
		}
		w.Header().Set(key, value)
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			http.Error(w, "Failed to decode response body", http.StatusInternalServerError)
			return
		}
		body = decoded
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}

// lambdaRoute adapts a Lambda handler to net/http for one method
func lambdaRoute(method string, fn lambdaFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeResponse(w, response.JSON(http.StatusMethodNotAllowed, response.ErrorResponse("Method not allowed")))
			return
		}

		req, err := adaptRequest(r)
		if err != nil {
			writeResponse(w, response.JSON(http.StatusBadRequest, response.ErrorResponse("Failed to read request")))
			return
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			logger.WithContext(r.Context()).WithError(err).Error("Handler failed", "path", r.URL.Path)
			writeResponse(w, response.JSON(http.StatusInternalServerError, response.ErrorResponse("Internal server error")))
			return
		}
		writeResponse(w, resp)
	}
}

// newRouter registers every service route plus /health and /metrics
func newRouter(credH *credentialHandler.CredentialHandler, patientH *patientHandler.PatientHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// ======================= CREDENTIAL ROUTES (admin) =======================
	mux.Handle("/api/admin/credentials/reset", lambdaRoute(http.MethodPost, credH.HandleReset))
	mux.Handle("/api/admin/credentials/status", lambdaRoute(http.MethodGet, credH.HandleStatus))
	mux.Handle("/api/admin/credentials/download", lambdaRoute(http.MethodGet, credH.HandleDownload))
	mux.Handle("/api/admin/credentials/download-pdf", lambdaRoute(http.MethodGet, credH.HandleDownloadPDF))
	mux.Handle("/api/admin/credentials/acknowledge", lambdaRoute(http.MethodPost, credH.HandleAcknowledge))
	mux.Handle("/api/admin/credentials/confirm-reset", lambdaRoute(http.MethodPost, credH.HandleConfirmReset))
	mux.Handle("/admin/credentials", lambdaRoute(http.MethodGet, credH.HandlePage))

	// ======================= PATIENT ROUTES =======================
	mux.Handle("/api/patients", lambdaRoute(http.MethodPost, patientH.HandleRegister))
	mux.Handle("/api/patients/detail", lambdaRoute(http.MethodGet, patientH.HandleGetPatient))
	mux.Handle("/api/validate/password", lambdaRoute(http.MethodPost, patientH.HandleValidatePassword))

	// ======================= OPS =======================
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, response.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}))
	})
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// newServerHandler wraps the router with CORS, request IDs and access logging
func newServerHandler(mux *http.ServeMux, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	})
	return requestIDMiddleware(loggingMiddleware(mux, c.Handler(mux)))
}

// requestIDMiddleware assigns every request an ID, reusing X-Request-ID when sent
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), logger.RequestIDKey, id)
		if claims, err := jwt.ValidateToken(jwt.ExtractBearer(r.Header.Get("Authorization"))); err == nil {
			ctx = context.WithValue(ctx, logger.UserKey, claims.Username)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// unmatchedRoute labels requests no registered pattern serves
const unmatchedRoute = "unmatched"

// routeLabel returns the registered pattern serving r, keeping the metric
// label set bounded no matter which paths clients send.
func routeLabel(mux *http.ServeMux, r *http.Request) string {
	if _, pattern := mux.Handler(r); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

// methodLabel folds non-standard methods into one label value
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	}
	return "OTHER"
}

// loggingMiddleware logs each request and records HTTP metrics per route pattern
func loggingMiddleware(mux *http.ServeMux, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		d := time.Since(start)
		if r.URL.Path != "/metrics" && r.URL.Path != "/health" {
			logger.Default().LogRequest(logger.RequestLog{
				Method:       r.Method,
				Path:         r.URL.Path,
				Status:       rw.statusCode,
				Duration:     d,
				ClientIP:     clientIP(r),
				UserAgent:    r.UserAgent(),
				RequestID:    requestIDFrom(r.Context()),
				ResponseSize: rw.size,
			})
		}
		metrics.ObserveRequest(routeLabel(mux, r), methodLabel(r.Method), rw.statusCode, d)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(logger.RequestIDKey).(string)
	return id
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
