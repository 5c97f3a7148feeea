package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"tessera/config"
	"tessera/docstore"
	"tessera/events"
	"tessera/globals"
	"tessera/kv"
	"tessera/models"
	"tessera/orders"
	"tessera/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: tessera <command>

commands:
  export         print the stored document as indented JSON
  import <file>  replace the stored document with the file's contents
  reset          clear the document and session slots, re-bootstrap
  seed <file>    bulk-upsert events and orders from a JSON file`)
	os.Exit(2)
}

func main() {
	cfg := config.Load()

	backend, cleanup := openBackend(cfg)
	defer cleanup()

	store := docstore.New(backend, cfg.DocumentSlot, cfg.SessionSlot)
	sessions := session.New(backend, cfg.SessionSlot, globals.JwtSecret)
	eventRepo := events.New(store, sessions)
	orderRepo := orders.New(store, sessions, eventRepo)

	if len(os.Args) < 2 {
		usage()
	}

	ctx := globals.Ctx
	switch os.Args[1] {
	case "export":
		out, err := store.Export(ctx)
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		fmt.Println(out)

	case "import":
		if len(os.Args) < 3 {
			usage()
		}
		raw, err := os.ReadFile(os.Args[2])
		if err != nil {
			log.Fatalf("cannot read %s: %v", os.Args[2], err)
		}
		if !store.Import(ctx, string(raw)) {
			log.Fatal("import rejected; stored document unchanged")
		}
		log.Println("import complete")

	case "reset":
		store.Reset(ctx)
		log.Println("store reset")

	case "seed":
		if len(os.Args) < 3 {
			usage()
		}
		raw, err := os.ReadFile(os.Args[2])
		if err != nil {
			log.Fatalf("cannot read %s: %v", os.Args[2], err)
		}
		var payload struct {
			Events []models.Event `json:"events"`
			Orders []models.Order `json:"orders"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Fatalf("seed file invalid: %v", err)
		}
		for _, event := range payload.Events {
			if _, err := eventRepo.Save(ctx, event); err != nil {
				log.Fatalf("seed event %s failed: %v", event.ID, err)
			}
		}
		for _, order := range payload.Orders {
			if _, err := orderRepo.Save(ctx, order); err != nil {
				log.Fatalf("seed order %s failed: %v", order.ID, err)
			}
		}
		log.Printf("seeded %d events, %d orders", len(payload.Events), len(payload.Orders))

	default:
		usage()
	}
}

func openBackend(cfg config.Config) (kv.Backend, func()) {
	switch cfg.Backend {
	case "redis":
		r := kv.NewRedis(kv.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return r, func() { _ = r.Close() }
	case "mongo":
		m, err := kv.NewMongo(globals.Ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		return m, func() { _ = m.Close(globals.Ctx) }
	case "memory", "":
		return kv.NewMemory(), func() {}
	default:
		log.Fatalf("unknown backend %q", cfg.Backend)
		return nil, nil
	}
}
