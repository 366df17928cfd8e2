package routes

import (
	"database/sql"

	"github.com/gorilla/mux"
	"verdantly.com/plant-care-backend/handlers"
)

func CreateWateringRoutes(db *sql.DB, router *mux.Router) *mux.Router {

	router.HandleFunc("/watering_checklist", handlers.GetWateringChecklist(db)).Methods("GET")
	router.HandleFunc("/watering_checklist", handlers.MarkPlantWatered(db)).Methods("POST")

	router.HandleFunc("/business-watering-checklist", handlers.GetBusinessWateringChecklist(db)).Methods("GET")
	router.HandleFunc("/business-watering-checklist", handlers.MarkBusinessPlantWatered(db)).Methods("POST")

	router.HandleFunc("/optimize_watering_route", handlers.OptimizeWateringRoute(db)).Methods("GET")

	router.HandleFunc("/care_checklist", handlers.GetCareChecklist(db)).Methods("GET")
	router.HandleFunc("/care_checklist", handlers.MarkUserPlantCared(db)).Methods("POST")

	return router
}
