package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/openlmis/fulfillment/internal/app/api"
)

func main() {
	_ = godotenv.Load()
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("fulfillment API failed: %v", err)
	}
}
