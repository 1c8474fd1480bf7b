package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/NeighborlyNG/location-core/internal/cache"
	"github.com/NeighborlyNG/location-core/internal/config"
	"github.com/NeighborlyNG/location-core/internal/db"
	"github.com/NeighborlyNG/location-core/internal/gateway"
	"github.com/NeighborlyNG/location-core/internal/httpapi"
	"github.com/NeighborlyNG/location-core/internal/middleware"
	"github.com/NeighborlyNG/location-core/internal/queue"
	"github.com/NeighborlyNG/location-core/internal/reachability"
	"github.com/NeighborlyNG/location-core/internal/recommend"
	"github.com/NeighborlyNG/location-core/internal/remote"
	"github.com/NeighborlyNG/location-core/internal/seeds"
	"github.com/NeighborlyNG/location-core/internal/selection"
	"github.com/NeighborlyNG/location-core/internal/store"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "location-core is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config: ", err)
	}

	gormDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open local database: ", err)
	}

	kv, err := store.NewGormStore(gormDB)
	if err != nil {
		log.Fatal("Failed to migrate local store: ", err)
	}

	ctx := context.Background()
	entityCache := cache.New(kv)

	if cfg.SeedFixture != "" {
		fixture, err := seeds.Load(cfg.SeedFixture)
		if err != nil {
			log.Fatal("Failed to load seed fixture: ", err)
		}
		if err := fixture.Warm(ctx, entityCache); err != nil {
			log.Fatal("Failed to warm cache: ", err)
		}
	}

	var source reachability.Source
	if cfg.NATSURL != "" {
		source = reachability.NATSSource{URL: cfg.NATSURL}
	} else {
		source = reachability.StaticSource{Connected: cfg.AssumeOnline}
	}
	monitor := reachability.NewMonitor(source)
	defer monitor.Close()

	offlineQueue, err := queue.Load(ctx, kv)
	if err != nil {
		log.Fatal("Failed to load offline queue: ", err)
	}

	client := remote.NewClient(cfg.RemoteBaseURL, cfg.APIKey)
	gw := gateway.New(entityCache, offlineQueue, monitor, client)

	// Replay anything left over from the previous session.
	if monitor.IsOnline() && offlineQueue.Length() > 0 {
		gw.DrainNow(ctx)
	}

	tracker, err := selection.Load(ctx, kv)
	if err != nil {
		log.Fatal("Failed to load selection: ", err)
	}

	engine := recommend.NewEngine(gw, tracker)

	handler := &httpapi.Handler{
		Gateway:   gw,
		Selection: tracker,
		Engine:    engine,
		Monitor:   monitor,
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RequestLogger)
	r.Get("/", RootHandler)
	r.Mount("/location", handler.SetupRoutes())

	fmt.Println("location-core listening on port :" + cfg.Port + "...")

	if err := http.ListenAndServe("127.0.0.1:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
