package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"user-activity-analyzer/internal/config"
	"user-activity-analyzer/internal/domain/ports/repository"
	pg "user-activity-analyzer/internal/infra/db/postgres"
)

// Seeds a sample population covering every tier: users seen within the
// active window, within the dormant window, long past it, and one user
// who was never seen.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	const schema = `
CREATE TABLE IF NOT EXISTS users (
  user_id   BIGINT PRIMARY KEY,
  username  TEXT NOT NULL,
  last_seen TIMESTAMPTZ
);`
	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("create users table: %v", err)
	}

	existing, err := pg.NewPostgresUserRepo(pool).CountUsers(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("count users: %v", err)
	}
	if existing > 0 {
		fmt.Printf("%d users already present. No changes.\n", existing)
		return
	}

	now := time.Now().UTC()
	daysAgo := func(d int) *time.Time {
		ts := now.AddDate(0, 0, -d)
		return &ts
	}

	seed := []struct {
		ID       int64
		Username string
		LastSeen *time.Time
	}{
		// Active (within 7 days)
		{1, "alice", daysAgo(1)},
		{2, "bob", daysAgo(5)},
		{3, "charlie", daysAgo(7)},

		// Dormant (7-30 days)
		{4, "diana", daysAgo(10)},
		{5, "eve", daysAgo(20)},
		{6, "frank", daysAgo(30)},

		// Inactive (30+ days)
		{7, "grace", daysAgo(45)},
		{8, "henry", daysAgo(90)},
		{9, "iris", daysAgo(180)},

		// Never seen
		{10, "john", nil},
	}

	for _, u := range seed {
		_, err := pool.Exec(ctx,
			`INSERT INTO users (user_id, username, last_seen) VALUES ($1, $2, $3);`,
			u.ID, u.Username, u.LastSeen,
		)
		if err != nil {
			log.Fatalf("seed user %q: %v", u.Username, err)
		}
		fmt.Printf("seeded: %s (id=%d)\n", u.Username, u.ID)
	}

	fmt.Printf("Seeding complete: %d users.\n", len(seed))
}
