// Command set-setting updates one room tunable in the runtime_config table.
//
//	set-setting admin_name Xander
//	set-setting -list
//
// The server picks the new value up on its next start.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/playpong/backend/internal/config"
	"github.com/playpong/backend/internal/database"
	"github.com/playpong/backend/internal/settings"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	list := flag.Bool("list", false, "List all runtime settings")
	by := flag.String("by", "cli", "Name recorded as updated_by")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *list {
		entries, err := settings.GetAll(db)
		if err != nil {
			log.Fatalf("Failed to list settings: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("%-18s %-8s %-10q %s\n", e.Key, e.ValueType, e.Value, e.Description)
		}
		return
	}

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-by NAME] KEY VALUE | -list\n", os.Args[0])
		os.Exit(2)
	}

	key, value := flag.Arg(0), flag.Arg(1)
	if err := settings.Update(db, key, value, *by); err != nil {
		log.Fatalf("Failed to update %s: %v", key, err)
	}

	log.Printf("✓ %s set to %q", key, value)
}
