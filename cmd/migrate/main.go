package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// schema is the canonical store, append-only. The primary key on
// ride_id is what enforces first-write-wins at insertion time.
const schema = `
CREATE TABLE IF NOT EXISTS trips (
	ride_id            TEXT PRIMARY KEY,
	rideable_type      TEXT NOT NULL,
	started_at         TIMESTAMP NOT NULL,
	ended_at           TIMESTAMP NOT NULL,
	start_station_name TEXT NOT NULL DEFAULT '',
	end_station_name   TEXT NOT NULL DEFAULT '',
	start_lat          DOUBLE PRECISION NOT NULL,
	start_lng          DOUBLE PRECISION NOT NULL,
	end_lat            DOUBLE PRECISION NOT NULL,
	end_lng            DOUBLE PRECISION NOT NULL,
	member_casual      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trips_member_casual ON trips (member_casual);
CREATE INDEX IF NOT EXISTS idx_trips_started_at ON trips (started_at);
`

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	log.Printf("Schema applied")
}
