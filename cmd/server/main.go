package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"route-catalog-service/internal/adapters/repositories"
	"route-catalog-service/internal/adapters/ws"
	"route-catalog-service/internal/api"
	"route-catalog-service/internal/config"
	"route-catalog-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, WebSocket hub) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	port := config.Get("PORT", "8080")
	allowedOrigin := config.Get("CORS_ALLOWED_ORIGIN", "*")

	sdb, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sdb.Close()

	if err := repositories.InitSchema(sdb); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewPostgresRouteRepository(sdb)
	importLog := repositories.NewPostgresImportLog(sdb)

	// One hub per process; every mutation path broadcasts through it.
	hub := ws.NewHub()

	router := api.NewRouter(repo, importLog, hub, allowedOrigin)

	// WriteTimeout stays at zero: it would sever long-lived WebSocket
	// subscriber connections.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
