package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"verdantly.com/plant-care-backend/models"
	"verdantly.com/plant-care-backend/services"
)

var validate = validator.New()

type registerTokenRequest struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	BusinessID string `json:"businessId"`
	Token      string `json:"token" validate:"required"`
	Platform   string `json:"platform" validate:"required,oneof=android ios web"`
	Provider   string `json:"provider" validate:"required,oneof=expo fcm apns"`
}

func (req *registerTokenRequest) ownerID() string {
	switch {
	case req.UserID != "":
		return req.UserID
	case req.Email != "":
		return req.Email
	default:
		return req.BusinessID
	}
}

// RegisterDeviceToken upserts a push token registration. The provider tag
// is fixed here: a token claimed as Expo must match the Expo token format,
// and send paths never re-sniff the string.
func RegisterDeviceToken(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid registration: "+validationMessage(err))
			return
		}

		ownerID := req.ownerID()
		if ownerID == "" {
			writeError(w, http.StatusBadRequest, "Missing userId, email or businessId")
			return
		}

		if req.Provider == models.ProviderExpo && !services.IsExpoToken(req.Token) {
			writeError(w, http.StatusBadRequest, "Token does not match Expo push token format")
			return
		}

		store := &services.TokenStore{DB: db}
		docID, created, err := store.StoreToken(ownerID, req.Token, req.Platform, req.Provider)
		if err != nil {
			log.Printf("[RegisterToken] Upsert failed for user %s: %v", ownerID, err)
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":      true,
			"id":      docID,
			"updated": !created,
		})
	}
}

func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid payload"
	}
	first := errs[0]
	if first.Tag() == "required" {
		return "missing " + first.Field()
	}
	return "invalid " + first.Field()
}
