package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"tourzen-api/internal/migrate"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/migrate [up|down|status|seed]")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command := os.Args[1]; command {
	case "up":
		if err := migrate.Up(ctx, dbURL); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		fmt.Println("✅ Migrations applied")

	case "down":
		if err := migrate.Down(ctx, dbURL); err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		fmt.Println("✅ Rolled back one migration")

	case "status":
		if err := migrate.Status(ctx, dbURL); err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}

	case "seed":
		conn, err := pgx.Connect(ctx, dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close(ctx)

		n, err := seedPackages(ctx, conn)
		if err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Printf("✅ Seeded %d tour packages\n", n)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

type seedPackage struct {
	name, destination, departure, duration, date, image string
	price                                               float64
}

var seedGuide = struct{ name, email, contact string }{
	name:    "TourZen Guide",
	email:   "guide@tourzen.dev",
	contact: "+8801700000000",
}

var seedData = []seedPackage{
	{"Sundarbans Mangrove Expedition", "Khulna", "Dhaka", "3 days", "2025-03-01", "https://images.tourzen.dev/sundarbans.jpg", 180},
	{"Cox's Bazar Beach Escape", "Cox's Bazar", "Chattogram", "2 days", "2025-03-15", "https://images.tourzen.dev/coxs-bazar.jpg", 120},
	{"Sylhet Tea Garden Trail", "Sylhet", "Dhaka", "2 days", "2025-04-05", "https://images.tourzen.dev/sylhet.jpg", 95},
	{"Bandarban Hill Trek", "Bandarban", "Chattogram", "4 days", "2025-04-20", "https://images.tourzen.dev/bandarban.jpg", 210},
}

// seedPackages inserts demo packages with ids derived from their names so reruns are no-ops
func seedPackages(ctx context.Context, conn *pgx.Conn) (int64, error) {
	batch := &pgx.Batch{}
	for _, p := range seedData {
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("tourzen:"+p.name))
		batch.Queue(`
			INSERT INTO tour_packages (id, tour_name, destination, departure_location, guide_name,
				guide_email, guide_contact_no, image, duration, price, tour_date, description,
				created_by_email, booking_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $6, 0, now())
			ON CONFLICT (id) DO NOTHING
		`, id, p.name, p.destination, p.departure, seedGuide.name, seedGuide.email, seedGuide.contact,
			p.image, p.duration, p.price, p.date, p.name+" departing from "+p.departure)
	}

	results := conn.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range seedData {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert package: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}
