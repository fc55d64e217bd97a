package main

import (
	"log"

	"github.com/linkstash/linkstash/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkstash-dev failed to start: %v", err)
	}
}
