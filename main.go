package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"

	"degview/api"
	"degview/internal/config"
	"degview/internal/session"
	"degview/internal/table"

	"github.com/joho/godotenv"
)

const loadCacheEntries = 32

func main() {
	// Load environment variables from .env file
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

	server := api.NewServer(appConfig, store, cache)

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("[Main] pprof server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("[Main] pprof server failed: %v", err)
			}
		}()
	}

	log.Printf("[Main] Starting degview API on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
