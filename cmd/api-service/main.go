package main

import (
	"log"

	"realty-notify-system/internal/app"
)

func main() {
	application, err := app.NewAPIApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application run failed: %v", err)
	}
}
