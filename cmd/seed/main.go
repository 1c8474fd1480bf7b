// Command seed warms the device-local hierarchy cache from a YAML fixture,
// so a build can ship with an offline-browsable hierarchy before its first
// sync.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/NeighborlyNG/location-core/internal/cache"
	"github.com/NeighborlyNG/location-core/internal/db"
	"github.com/NeighborlyNG/location-core/internal/seeds"
	"github.com/NeighborlyNG/location-core/internal/store"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		dbPath  = flag.String("db", "location-core.db", "path to the local sqlite database")
		fixture = flag.String("fixture", "", "YAML fixture path (embedded default when empty)")
	)
	flag.Parse()

	gormDB, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal("Failed to open local database: ", err)
	}

	kv, err := store.NewGormStore(gormDB)
	if err != nil {
		log.Fatal("Failed to migrate local store: ", err)
	}

	f, err := seeds.Load(*fixture)
	if err != nil {
		log.Fatal("Failed to load fixture: ", err)
	}

	if err := f.Warm(context.Background(), cache.New(kv)); err != nil {
		log.Fatal("Failed to warm cache: ", err)
	}
}
