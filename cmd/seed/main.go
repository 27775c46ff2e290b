// Package main provides a tool to seed the database with sample DJ data.
//
// This creates a small directory of DJs with genres, subgenres and venues
// to test search, favourites and taxonomy features.
//
// Usage:
//
//	DATA_PATH=~/Spinlist/data go run ./cmd/seed
//	DATA_PATH=~/Spinlist/data go run ./cmd/seed --reset         # Wipe DJs first
//	DATA_PATH=~/Spinlist/data go run ./cmd/seed --create-admin  # Also create an admin account
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spinlist/spinlist-server/internal/auth"
	"github.com/spinlist/spinlist-server/internal/media/images"
	"github.com/spinlist/spinlist-server/internal/search"
	"github.com/spinlist/spinlist-server/internal/service"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

var (
	reset       = flag.Bool("reset", false, "Delete all DJs before seeding")
	createAdmin = flag.Bool("create-admin", false, "Create an admin account if no users exist")
)

// seedDjs is the sample directory inserted by this tool.
var seedDjs = []service.CreateDjRequest{
	{
		Name:      "Sherelle",
		Produces:  true,
		City:      "London",
		Genres:    []string{"footwork", "jungle"},
		Subgenres: map[string][]string{"jungle": {"ragga jungle"}},
		Venues:    []string{"fabric", "Corsica Studios"},
	},
	{
		Name:      "Ben UFO",
		Produces:  false,
		City:      "London",
		Genres:    []string{"techno", "dubstep"},
		Subgenres: map[string][]string{"140": {"deep dubstep"}},
		Venues:    []string{"fabric", "Phonox"},
	},
	{
		Name:      "DJ Storm",
		Produces:  false,
		City:      "London",
		Genres:    []string{"dnb"},
		Subgenres: map[string][]string{"drum and bass": {"jump up", "liquid"}},
		Venues:    []string{"The Blue Note"},
	},
	{
		Name:     "Helena Hauff",
		Produces: true,
		City:     "Hamburg",
		Genres:   []string{"electro", "techno"},
		Venues:   []string{"Golden Pudel"},
	},
	{
		Name:      "Nia Archives",
		Produces:  true,
		City:      "Manchester",
		Genres:    []string{"jungle"},
		Subgenres: map[string][]string{"jungle": {"ragga jungle"}},
		Venues:    []string{"The Warehouse Project"},
	},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Spinlist/data")
	}

	fmt.Printf("Using data directory: %s\n", dataPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.Open(filepath.Join(dataPath, "spinlist.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	index, err := search.NewIndex(search.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	storage, err := images.NewStorage(filepath.Join(dataPath, "images"), "dj-profiles")
	if err != nil {
		log.Fatalf("Failed to open image storage: %v", err)
	}

	djService := service.NewDjService(db, index, images.NewProcessor(storage, logger), logger)

	ctx := context.Background()

	if *createAdmin {
		createAdminUser(ctx, db, dataPath, logger)
	}

	if *reset {
		deleted, err := db.DeleteAllDjs(ctx)
		if err != nil {
			log.Fatalf("Failed to delete DJs: %v", err)
		}
		fmt.Printf("Deleted %d existing DJs\n", deleted)
	}

	created := 0
	for _, req := range seedDjs {
		dj, err := djService.Create(ctx, req)
		if err != nil {
			log.Printf("  Skipping %s: %v", req.Name, err)
			continue
		}
		fmt.Printf("  Created DJ: %s (%s) genres=%v\n", dj.Name, dj.City, dj.AllGenres)
		created++
	}

	if err := djService.Reindex(ctx); err != nil {
		log.Printf("Reindex failed: %v", err)
	}

	fmt.Printf("\nSeeding complete, %d DJs created\n", created)
}

// createAdminUser creates an admin account when the database has no users.
func createAdminUser(ctx context.Context, db *sqlite.Store, dataPath string, logger *slog.Logger) {
	count, err := db.CountUsers(ctx)
	if err != nil {
		log.Printf("Failed to count users: %v", err)
		return
	}
	if count > 0 {
		fmt.Println("Users already exist, skipping admin creation")
		return
	}

	key, err := auth.LoadOrGenerateKey(dataPath)
	if err != nil {
		log.Printf("Failed to load auth key: %v", err)
		return
	}

	tokens, err := auth.NewTokenService(key, time.Hour)
	if err != nil {
		log.Printf("Failed to create token service: %v", err)
		return
	}

	authService := service.NewAuthService(db, tokens, logger)

	resp, err := authService.Signup(ctx, service.SignupRequest{
		Username: "admin",
		Password: "spinlist-admin",
		IsAdmin:  true,
	}, false)
	if err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return
	}

	fmt.Printf("Created admin user %q with password %q, change it after first login\n",
		resp.User.Username, "spinlist-admin")
}
