package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func corsRouter() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/watering_checklist", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET", "POST")
	return CORS(router)
}

func TestCORSHeadersOnNormalResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/watering_checklist", nil)
	rec := httptest.NewRecorder()

	corsRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/watering_checklist", nil)
	rec := httptest.NewRecorder()

	corsRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHeadersOnErrorPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/watering_checklist", nil)
	rec := httptest.NewRecorder()

	corsRouter().ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
