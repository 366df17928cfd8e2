package routes

import (
	"database/sql"

	"github.com/gorilla/mux"
	"verdantly.com/plant-care-backend/handlers"
	"verdantly.com/plant-care-backend/models"
)

func CreateNotificationRoutes(db *sql.DB, router *mux.Router) *mux.Router {

	router.HandleFunc("/get_pending_notifications", handlers.GetPendingNotifications(db)).Methods("GET")

	router.HandleFunc("/notification_settings",
		handlers.NotificationSettingsHandler(db, models.OwnerTypeBusiness)).
		Methods("GET", "POST", "DELETE")
	router.HandleFunc("/consumer-notification-settings",
		handlers.NotificationSettingsHandler(db, models.OwnerTypeConsumer)).
		Methods("GET", "POST", "DELETE")

	router.HandleFunc("/register_device_token", handlers.RegisterDeviceToken(db)).Methods("POST")
	router.HandleFunc("/business_register_notification", handlers.RegisterDeviceToken(db)).Methods("POST")

	return router
}
