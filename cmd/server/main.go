package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/roomiehq/roomie/internal/config"
	"github.com/roomiehq/roomie/internal/database"
	"github.com/roomiehq/roomie/internal/geocode"
	postgresrepo "github.com/roomiehq/roomie/internal/repository/postgres"
	"github.com/roomiehq/roomie/internal/service"
	"github.com/roomiehq/roomie/internal/transport/http/handlers"
	"github.com/roomiehq/roomie/internal/transport/http/middleware"
	"github.com/roomiehq/roomie/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("loading config", "error", err)
	}

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("connecting to database", "error", err)
	}
	defer pool.Close()
	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal("migrating database", "error", err)
	}
	log.Info("connected to database", "host", cfg.DBHost, "db", cfg.DBName)

	// Store & geocoder
	store := postgresrepo.NewStore(pool)
	geocoder := geocode.NewClient(cfg.GeocoderURL, cfg.GeocodeTimeout)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Services
	locationService := service.NewLocationService(geocoder)
	matchingService := service.NewMatchingService(store, locationService, ws.NewHubNotifier(hub))

	// Handlers
	userHandler := handlers.NewUserHandler(matchingService)
	matchHandler := handlers.NewMatchHandler(matchingService)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	mux.HandleFunc("GET /api/v1/users", userHandler.List)
	mux.HandleFunc("POST /api/v1/users", userHandler.Register)
	mux.HandleFunc("GET /api/v1/users/{deviceID}", userHandler.Get)
	mux.HandleFunc("DELETE /api/v1/users/{deviceID}", userHandler.Delete)
	mux.HandleFunc("GET /api/v1/users/{deviceID}/nearby", matchHandler.Nearby)
	mux.HandleFunc("GET /api/v1/users/{deviceID}/matches", matchHandler.Matches)

	mux.HandleFunc("GET /ws", ws.ServeWS(hub, matchingService))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info("starting server", "addr", addr)
	log.Fatal("server stopped", "error", http.ListenAndServe(addr, middleware.CORS(mux)))
}
