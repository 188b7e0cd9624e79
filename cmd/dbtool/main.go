package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"route-catalog-service/internal/adapters/importxml"
	"route-catalog-service/internal/adapters/repositories"
	"route-catalog-service/internal/config"
	"route-catalog-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool initializes the catalog schema and optionally seeds routes from an
// import document, for local runs and test databases.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	sdb, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sdb.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(sdb); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "")
	if seedPath == "" {
		return
	}

	log.Printf("Seeding routes from %s...", seedPath)
	added, err := seedFromXML(sdb, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete: added=%d", added)
}

// seedFromXML pushes the seed document through the same parse and batch
// insert path the import endpoint uses, so seeds obey the same invariants.
func seedFromXML(sdb *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("seed routes: open %q: %w", path, err)
	}
	defer f.Close()

	routes, err := importxml.Parse(f)
	if err != nil {
		return 0, fmt.Errorf("seed routes: %w", err)
	}

	repo := repositories.NewPostgresRouteRepository(sdb)
	added, err := repo.InsertBatch(context.Background(), routes)
	if err != nil {
		return 0, fmt.Errorf("seed routes: %w", err)
	}

	return added, nil
}
