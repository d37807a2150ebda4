package main

import (
	"context"
	"log"

	"labservices/internal/pkg"
)

func main() {
	log.Println("App start")

	app, err := pkg.NewApp(context.Background())
	if err != nil {
		log.Fatalf("App init failed: %v", err)
	}

	app.RunApp()
	log.Println("App terminated")
}
