package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/roomgrid/roomgrid/internal/model"
	"github.com/roomgrid/roomgrid/internal/repository"
)

type output struct {
	Seeded     int      `json:"seeded"`
	Population int      `json:"population"`
	Usernames  []string `json:"usernames"`
}

// Seeds a batch of users so chatroom backfill has a population to draw
// from in dev and e2e environments.
func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		count       = flag.Int("count", 20, "Number of users to seed")
		prefix      = flag.String("prefix", "seed", "Username prefix")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *count < 1 {
		fmt.Fprintln(os.Stderr, "count must be >= 1")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	usernames := make([]string, 0, *count)
	for i := 0; i < *count; i++ {
		username := fmt.Sprintf("%s-%d-%d", *prefix, time.Now().Unix(), i)
		user := &model.User{
			ID:         ulid.Make().String(),
			IdentityID: fmt.Sprintf("%s-uid-%s", *prefix, ulid.Make().String()),
			Email:      username + "@roomgrid.local",
			Username:   username,
			CreatedAt:  time.Now().UTC(),
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			fmt.Fprintf(os.Stderr, "create user %s: %v\n", username, err)
			os.Exit(1)
		}
		usernames = append(usernames, username)
	}

	population, err := repo.CountUsers(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "count users:", err)
		os.Exit(1)
	}

	out := output{Seeded: len(usernames), Population: population, Usernames: usernames}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(strings.Join(usernames, "\n"))
		fmt.Printf("seeded %d users (population now %d)\n", out.Seeded, out.Population)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
