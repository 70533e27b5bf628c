package main

import (
	"context"
	"log"

	"api-page-gen/internal/bootstrap"
	"api-page-gen/internal/config"
	"api-page-gen/internal/server"
	"api-page-gen/pkg/events"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Panicf("Invalid configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.HistoryDB.Close()
	defer container.Logger.Sync()

	// 3. Mirror run progress into the structured log
	err = container.Bus.Consume(context.Background(), events.TopicRecordCompleted, func(env events.Envelope) {
		container.Logger.Info("panel", "record completed", env.Data)
	})
	if err != nil {
		log.Printf("Background progress consumer error: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
