package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/akram-999/doctor-booking-app/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := ensureSchema(context.Background(), pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	if err := seedDoctor(context.Background(), pool); err != nil {
		log.Fatalf("seed doctor: %v", err)
	}
	if err := seedTimeSlots(context.Background(), pool); err != nil {
		log.Fatalf("seed time slots: %v", err)
	}

	log.Println("seed complete")
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS doctors (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			specialization TEXT NOT NULL,
			experience INT NOT NULL,
			qualification TEXT NOT NULL,
			bio TEXT,
			profile_picture TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS time_slots (
			id UUID PRIMARY KEY,
			day_of_week TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			is_available BOOLEAN NOT NULL DEFAULT true,
			max_appointments INT NOT NULL DEFAULT 1,
			current_appointments INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT occupancy_within_capacity
				CHECK (current_appointments >= 0 AND current_appointments <= max_appointments)
		);

		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			slot_id UUID NOT NULL,
			patient_name TEXT NOT NULL,
			patient_email TEXT NOT NULL,
			patient_phone TEXT NOT NULL,
			appointment_date DATE NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled',
			reason TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_appointments_slot_id ON appointments (slot_id);
		CREATE INDEX IF NOT EXISTS idx_time_slots_window ON time_slots (start_time, end_time);
	`)
	if err != nil {
		return err
	}

	log.Println("schema ensured")
	return nil
}

func seedDoctor(ctx context.Context, pool *pgxpool.Pool) error {
	email := getEnvDefault("SEED_DOCTOR_EMAIL", "doctor@example.com")
	password := getEnvDefault("SEED_DOCTOR_PASSWORD", "changeme")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO doctors (id, name, email, password, specialization, experience, qualification, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (email) DO NOTHING
	`,
		uuid.New(),
		"Dr. "+gofakeit.Name(),
		email,
		string(hash),
		"General Practice",
		gofakeit.Number(3, 30),
		"MBBS",
		gofakeit.Sentence(12),
	)
	if err != nil {
		return err
	}

	log.Printf("doctor seeded: %s", email)
	return nil
}

func seedTimeSlots(ctx context.Context, pool *pgxpool.Pool) error {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	hours := []int{9, 10, 11, 14, 15, 16}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	count := 0
	for _, day := range days {
		for _, h := range hours {
			start := fmt.Sprintf("%02d:00", h)
			end := fmt.Sprintf("%02d:00", h+1)

			_, err := tx.Exec(ctx, `
				INSERT INTO time_slots (id, day_of_week, start_time, end_time, is_available, max_appointments, current_appointments, created_at, updated_at)
				VALUES ($1, $2, $3, $4, true, $5, 0, now(), now())
			`, uuid.New(), day, start, end, gofakeit.Number(1, 4))
			if err != nil {
				return err
			}
			count++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("time slots seeded: %d", count)
	return nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
