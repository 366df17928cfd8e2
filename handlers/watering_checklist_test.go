package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWateringChecklistRequiresBusinessID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/watering_checklist", nil)
	rec := httptest.NewRecorder()

	GetWateringChecklist(nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "businessId")
}

func TestMarkPlantWateredRequiresPlantID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/watering_checklist?businessId=b1",
		strings.NewReader(`{"method":"manual"}`))
	rec := httptest.NewRecorder()

	MarkPlantWatered(nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "plantId")
}

func TestMarkPlantWateredRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/watering_checklist?businessId=b1",
		strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	MarkPlantWatered(nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBusinessChecklistAcceptsEmailHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/business-watering-checklist", nil)
	req.Header.Set("X-User-Email", "owner@shop.test")

	assert.Equal(t, "owner@shop.test", businessOwnerFromRequest(req))

	req2 := httptest.NewRequest(http.MethodGet, "/business-watering-checklist?businessId=b9", nil)
	req2.Header.Set("X-User-Email", "owner@shop.test")
	assert.Equal(t, "b9", businessOwnerFromRequest(req2), "query param wins over header")
}

func TestOptimizeRouteRequiresBusinessID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/optimize_watering_route", nil)
	rec := httptest.NewRecorder()

	OptimizeWateringRoute(nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
