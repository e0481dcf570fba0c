package main

import (
	"log"

	"degview/internal/config"
	"degview/internal/session"
	"degview/internal/table"
	"degview/ui"

	"github.com/joho/godotenv"
)

const loadCacheEntries = 32

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store := session.NewStore(appConfig.Session.TTL)
	stop := make(chan struct{})
	defer close(stop)
	store.StartCleanup(appConfig.Session.CleanupInterval, stop)

	cache := table.NewLoadCache(loadCacheEntries)

	app, err := ui.NewApp(appConfig, store, cache)
	if err != nil {
		log.Fatalf("Failed to initialize UI: %v", err)
	}

	log.Printf("[Main] Starting degview UI on port %s", appConfig.UI.Port)
	log.Fatal(app.Start(":" + appConfig.UI.Port))
}
