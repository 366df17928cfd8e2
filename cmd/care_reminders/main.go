package main

import (
	"log"

	"verdantly.com/plant-care-backend/config"
	"verdantly.com/plant-care-backend/database"
	"verdantly.com/plant-care-backend/handlers"
	"verdantly.com/plant-care-backend/services"
)

func main() {
	cfg := config.Load()

	if cfg.Firebase.CredentialsPath == "" {
		log.Fatal("FIREBASE_CREDENTIALS_PATH not set")
	}
	if err := services.InitFirebase(cfg.Firebase.CredentialsPath); err != nil {
		log.Printf("CareReminder: Firebase init failed: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("CareReminder: DB connection failed: ", err)
	}
	defer db.Close()

	gateway := &services.PushGateway{
		Tokens: &services.TokenStore{DB: db},
	}

	log.Println("⏰ Running care reminder job")
	handlers.SendCareReminderNotifications(db, gateway)
	log.Println("✅ Care reminder job finished")
}
