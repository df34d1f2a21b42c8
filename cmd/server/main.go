package main

import (
	"log"
	"os"

	"corkboard/internal/router"
	"corkboard/internal/session"
	"corkboard/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	st := store.Open(dataDir)
	sessions := session.NewTable()

	r := router.New(st, sessions, "./web/templates")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Corkboard server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
