package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hms-services/common/jwt"
	"github.com/hms-services/services/credential-lambda/models"
	"github.com/hms-services/services/credential-lambda/usecase"
)

type memUsers struct {
	users  map[string]*models.User
	hashes map[int]string
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, userID int, h string) error {
	m.hashes[userID] = h
	return nil
}

type cyclePasswords struct{ n int }

func (c *cyclePasswords) Generate() (string, error) {
	c.n++
	return []string{"Kx7@pQ2m9Ra!", "Zq4&wE8r2Ty?"}[c.n%2], nil
}

func newTestHandler() *CredentialHandler {
	users := &memUsers{
		users:  map[string]*models.User{"nurse.bob": {ID: 42, Username: "nurse.bob"}},
		hashes: map[int]string{},
	}
	uc := usecase.NewCredentialUseCase(users, usecase.NewSessionStore(time.Hour), &cyclePasswords{}, nil, "https://hms.example/login")
	return NewCredentialHandler(uc)
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.GenerateToken(1, "admin.jane", jwt.RoleAdmin)
	require.NoError(t, err)
	return token
}

func authed(t *testing.T, req events.APIGatewayProxyRequest) events.APIGatewayProxyRequest {
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	req.Headers["Authorization"] = "Bearer " + adminToken(t)
	return req
}

type envelope struct {
	Success bool                    `json:"success"`
	Data    *models.SessionResponse `json:"data"`
	Error   string                  `json:"error"`
	Code    string                  `json:"code"`
}

func decode(t *testing.T, resp events.APIGatewayProxyResponse) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &env))
	return env
}

func startSession(t *testing.T, h *CredentialHandler) string {
	t.Helper()
	resp, err := h.HandleReset(context.Background(), authed(t, events.APIGatewayProxyRequest{Body: `{"username":"nurse.bob"}`}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode(t, resp).Data.SessionID
}

func TestAdminGate(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	resp, _ := h.HandleReset(ctx, events.APIGatewayProxyRequest{Body: `{"username":"nurse.bob"}`})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.HandleReset(ctx, events.APIGatewayProxyRequest{
		Headers: map[string]string{"Authorization": "Bearer not-a-token"},
		Body:    `{"username":"nurse.bob"}`,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	nurse, err := jwt.GenerateToken(2, "nurse.amy", jwt.RoleNurse)
	require.NoError(t, err)
	resp, _ = h.HandleReset(ctx, events.APIGatewayProxyRequest{
		Headers: map[string]string{"Authorization": "Bearer " + nurse},
		Body:    `{"username":"nurse.bob"}`,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPageAcceptsTokenCookie(t *testing.T) {
	h := newTestHandler()
	id := startSession(t, h)

	resp, err := h.HandlePage(context.Background(), events.APIGatewayProxyRequest{
		Headers:               map[string]string{"Cookie": "theme=dark; " + TokenCookie + "=" + adminToken(t)},
		QueryStringParameters: map[string]string{"session": id},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResetAndDownload(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	id := startSession(t, h)

	resp, err := h.HandleDownload(ctx, authed(t, events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"session": id},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Headers["Content-Type"])
	assert.Regexp(t, `^attachment; filename="credentials_nurse\.bob_\d+\.txt"$`, resp.Headers["Content-Disposition"])
	assert.Contains(t, resp.Body, "Username: nurse.bob")
	assert.Contains(t, resp.Body, "Generated By: admin.jane")

	resp, err = h.HandleDownloadPDF(ctx, authed(t, events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"session": id},
	}))
	require.NoError(t, err)
	assert.True(t, resp.IsBase64Encoded)
	raw, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestAcknowledgeAndConfirmReset(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	id := startSession(t, h)

	resp, _ := h.HandleAcknowledge(ctx, authed(t, events.APIGatewayProxyRequest{Body: `{"sessionId":"` + id + `"}`}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StateConfirmed, decode(t, resp).Data.State)

	resp, _ = h.HandleConfirmReset(ctx, authed(t, events.APIGatewayProxyRequest{Body: `{"sessionId":"` + id + `","confirm":false}`}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "E4011", decode(t, resp).Code)

	resp, _ = h.HandleConfirmReset(ctx, authed(t, events.APIGatewayProxyRequest{Body: `{"sessionId":"` + id + `","confirm":true}`}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decode(t, resp)
	assert.Equal(t, models.StateUnsaved, env.Data.State)
	assert.True(t, env.Data.GuardActive)
}

func TestBadRequests(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	resp, _ := h.HandleReset(ctx, authed(t, events.APIGatewayProxyRequest{Body: `{`}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = h.HandleReset(ctx, authed(t, events.APIGatewayProxyRequest{Body: `{"username":"ghost"}`}))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = h.HandleStatus(ctx, authed(t, events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"session": "missing"},
	}))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "E3005", decode(t, resp).Code)
}

func TestPageGuardScript(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	id := startSession(t, h)

	page := func() string {
		resp, err := h.HandlePage(ctx, authed(t, events.APIGatewayProxyRequest{
			QueryStringParameters: map[string]string{"session": id},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Headers["Content-Type"])
		return resp.Body
	}

	unsaved := page()
	assert.Regexp(t, `let guardActive =\s*true\s*;`, unsaved)
	assert.Contains(t, unsaved, `id="unsaved-warning"`)
	assert.Contains(t, unsaved, "nurse.bob")
	assert.Contains(t, unsaved, "window.confirm(")
	assert.Contains(t, unsaved, "5000")

	_, _ = h.HandleAcknowledge(ctx, authed(t, events.APIGatewayProxyRequest{Body: `{"sessionId":"` + id + `"}`}))

	saved := page()
	assert.Regexp(t, `let guardActive =\s*false\s*;`, saved)
	assert.NotContains(t, saved, `id="unsaved-warning"`)
}

func TestPageUnknownSession(t *testing.T) {
	h := newTestHandler()
	resp, err := h.HandlePage(context.Background(), authed(t, events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"session": "nope"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Body, "Credentials unavailable")
}

func TestRouteSweepsExpiredSessions(t *testing.T) {
	users := &memUsers{
		users:  map[string]*models.User{"nurse.bob": {ID: 42, Username: "nurse.bob"}},
		hashes: map[int]string{},
	}
	uc := usecase.NewCredentialUseCase(users, usecase.NewSessionStore(time.Millisecond), &cyclePasswords{}, nil, "https://hms.example/login")
	h := NewCredentialHandler(uc)

	resp, err := h.Route(context.Background(), authed(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/admin/credentials/reset",
		Body:       `{"username":"nurse.bob"}`,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, uc.Store().Len())

	time.Sleep(5 * time.Millisecond)
	resp, err = h.Route(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/nowhere"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, uc.Store().Len(), "expired session holding a password was purged")
}
