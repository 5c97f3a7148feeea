package config

import (
	"log"
	"os"
	"strconv"

	"tessera/globals"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend selects the blob store: "memory", "redis" or "mongo".
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	DocumentSlot string
	SessionSlot  string
}

// Load reads configuration from the environment, loading .env first when
// present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Printf("Invalid REDIS_DB %q, using 0", raw)
		} else {
			redisDB = parsed
		}
	}

	return Config{
		Backend:         envOr("TESSERA_BACKEND", "memory"),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		MongoURI:        envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   envOr("MONGO_DB", "tessera"),
		MongoCollection: envOr("MONGO_COLLECTION", "slots"),
		DocumentSlot:    envOr("TESSERA_DOCUMENT_SLOT", globals.DocumentSlot),
		SessionSlot:     envOr("TESSERA_SESSION_SLOT", globals.SessionSlot),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
