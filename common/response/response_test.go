package response

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	resp := JSON(StatusCreated, SuccessResponse(map[string]string{"code": "PAT202600001"}))

	assert.Equal(t, StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	var body APIResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.True(t, body.Success)
}

func TestAttachment(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		resp := Attachment("credentials_bob_1.txt", "text/plain; charset=utf-8", []byte("hello"), false)
		assert.Equal(t, `attachment; filename="credentials_bob_1.txt"`, resp.Headers["Content-Disposition"])
		assert.Equal(t, "5", resp.Headers["Content-Length"])
		assert.Equal(t, "hello", resp.Body)
		assert.False(t, resp.IsBase64Encoded)
	})

	t.Run("binary", func(t *testing.T) {
		resp := Attachment("a.pdf", "application/pdf", []byte{0x25, 0x50, 0x44, 0x46}, true)
		assert.True(t, resp.IsBase64Encoded)
		raw, err := base64.StdEncoding.DecodeString(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(raw))
	})
}

func TestHTML(t *testing.T) {
	resp := HTML(StatusOK, "<p>ok</p>")
	assert.Equal(t, "text/html; charset=utf-8", resp.Headers["Content-Type"])
	assert.Equal(t, "no-store", resp.Headers["Cache-Control"])
}
