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

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("DailyWatering: DB connection failed: ", err)
	}
	defer db.Close()

	weather := services.NewWeatherGate(cfg.Weather)

	log.Println("⏰ Running daily watering update job")
	handlers.RunDailyWateringUpdate(db, weather)
	log.Println("✅ Daily watering update job finished")
}
