package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"mixtape-service/internal/playlist"
	"mixtape-service/internal/store"
)

func main() {
	port := getenv("PORT", "3000")
	dsn := os.Getenv("DATABASE_URL")
	dataFile := getenv("DATA_FILE", "data/playlists.json")
	redisURL := os.Getenv("REDIS_URL")
	corsOrigin := os.Getenv("CORS_ORIGIN")

	ctx := context.Background()

	var repo playlist.Repository
	if dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			log.Fatalf("mixtape-service: pg: %v", err)
		}
		defer pool.Close()
		if err := store.AutoMigrate(ctx, pool); err != nil {
			log.Fatalf("mixtape-service: migrate: %v", err)
		}
		repo = store.NewPostgres(pool)
		log.Printf("mixtape-service: using postgres store")
	} else {
		fs, err := store.NewFile(dataFile)
		if err != nil {
			log.Fatalf("mixtape-service: file store: %v", err)
		}
		repo = fs
		log.Printf("mixtape-service: using file store at %s", dataFile)
	}

	var rdb *redis.Client
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("mixtape-service: redis: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	engine := playlist.NewEngine(repo)
	srv := playlist.NewServer(engine, rdb)
	r := srv.Router(playlist.CORSMiddleware(corsOrigin), playlist.LimitBody)

	log.Printf("mixtape-service listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("mixtape-service: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
