package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"verdantly.com/plant-care-backend/config"
	"verdantly.com/plant-care-backend/database"
	"verdantly.com/plant-care-backend/routes"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("Server: DB connection failed: ", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal("Server: schema setup failed: ", err)
	}

	router := mux.NewRouter()
	routes.CreateWateringRoutes(db, router)
	routes.CreateNotificationRoutes(db, router)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	addr := ":" + cfg.Port
	log.Printf("🌱 Plant-care API listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, routes.CORS(router)))
}
