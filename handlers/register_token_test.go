package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation happens before any database access, so a nil db is fine for
// the rejection paths.
func postRegistration(t *testing.T, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register_device_token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	RegisterDeviceToken(nil)(rec, req)
	return rec
}

func errorField(t *testing.T, rec *httptest.ResponseRecorder) string {
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload["error"]
}

func TestRegisterDeviceTokenRejectsMalformedJSON(t *testing.T) {
	rec := postRegistration(t, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errorField(t, rec))
}

func TestRegisterDeviceTokenRejectsMissingToken(t *testing.T) {
	rec := postRegistration(t, `{"userId":"u1","platform":"android","provider":"fcm"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorField(t, rec), "Token")
}

func TestRegisterDeviceTokenRejectsUnknownProvider(t *testing.T) {
	rec := postRegistration(t, `{"userId":"u1","token":"tok","platform":"android","provider":"pigeon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDeviceTokenRejectsUnknownPlatform(t *testing.T) {
	rec := postRegistration(t, `{"userId":"u1","token":"tok","platform":"blackberry","provider":"fcm"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDeviceTokenRejectsMissingOwner(t *testing.T) {
	rec := postRegistration(t, `{"token":"tok","platform":"android","provider":"fcm"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorField(t, rec), "userId")
}

func TestRegisterDeviceTokenRejectsFakeExpoToken(t *testing.T) {
	rec := postRegistration(t, `{"userId":"u1","token":"not-an-expo-token","platform":"ios","provider":"expo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorField(t, rec), "Expo")
}
