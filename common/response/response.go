package response

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

// CORS Headers for API responses
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type,Authorization,X-Request-ID",
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

// SuccessResponse creates a success response
func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// ErrorResponse creates an error response
func ErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// JSON builds a gateway response with a JSON body
func JSON(status int, body interface{}) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		status = StatusInternalServerError
		b = []byte(`{"success":false,"error":"failed to encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    withCORS(map[string]string{"Content-Type": "application/json"}),
		Body:       string(b),
	}
}

// Attachment builds a file-download response. Binary payloads are base64 encoded.
func Attachment(filename, contentType string, data []byte, binary bool) events.APIGatewayProxyResponse {
	headers := withCORS(map[string]string{
		"Content-Type":        contentType,
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
		"Content-Length":      strconv.Itoa(len(data)),
		"Cache-Control":       "no-store",
	})
	resp := events.APIGatewayProxyResponse{StatusCode: StatusOK, Headers: headers}
	if binary {
		resp.Body = base64.StdEncoding.EncodeToString(data)
		resp.IsBase64Encoded = true
	} else {
		resp.Body = string(data)
	}
	return resp
}

// HTML builds a text/html response
func HTML(status int, page string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: withCORS(map[string]string{
			"Content-Type":  "text/html; charset=utf-8",
			"Cache-Control": "no-store",
		}),
		Body: page,
	}
}

func withCORS(h map[string]string) map[string]string {
	for k, v := range CORSHeaders {
		h[k] = v
	}
	return h
}

// Common HTTP status codes
const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusInternalServerError = 500
)
