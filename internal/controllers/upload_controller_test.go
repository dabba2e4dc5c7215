package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, r *gin.Engine, token, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="files"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadRejectsMismatchedMagicBytes(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "up@example.com", "user")

	// .jpg extension, declared JPEG, but PNG bytes on the wire.
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	w := multipartUpload(t, r, token, "holiday.jpg", "image/jpeg", png)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	body := decodeBody(t, w)
	failed, ok := body["failed"].([]interface{})
	require.True(t, ok)
	require.Len(t, failed, 1)
	entry := failed[0].(map[string]interface{})
	assert.Equal(t, "holiday.jpg", entry["originalName"])
	assert.Contains(t, entry["error"], "signature")
	assert.Empty(t, body["uploaded"])
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "up@example.com", "user")

	w := multipartUpload(t, r, token, "malware.exe", "application/octet-stream", []byte("MZ\x90\x00"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	failed := body["failed"].([]interface{})
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].(map[string]interface{})["error"], "unsupported")
}

func TestUploadSanitizesReportedFilename(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "up@example.com", "user")

	// The traversal path must not survive into the response.
	w := multipartUpload(t, r, token, "../../etc/cover.jpg", "image/jpeg",
		[]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	failed := body["failed"].([]interface{})
	require.Len(t, failed, 1)
	assert.Equal(t, "cover.jpg", failed[0].(map[string]interface{})["originalName"])
}

func TestUploadRequiresAuth(t *testing.T) {
	r := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignedURLValidatesBlobName(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "up@example.com", "user")

	w := doJSON(r, http.MethodGet, "/api/uploads/signed-url", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/uploads/signed-url?blob=..%2Fsecret.jpg", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
