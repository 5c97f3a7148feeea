// Package docstore owns the single application document: load with
// bootstrap, save with revision checking, export/import and reset. Every
// repository operation is a load → mutate copy → save cycle through here.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tessera/apperrors"
	"tessera/kv"
	"tessera/models"
)

type Store struct {
	backend    kv.Backend
	key        string
	sessionKey string
	now        func() time.Time
}

func New(backend kv.Backend, key, sessionKey string) *Store {
	return &Store{
		backend:    backend,
		key:        key,
		sessionKey: sessionKey,
		now:        time.Now,
	}
}

// Load returns the stored document. A missing slot bootstraps a fresh empty
// document; a corrupt blob is logged and replaced by an empty valid one.
// Load never fails: the read path must always yield something renderable.
func (s *Store) Load(ctx context.Context) models.Document {
	blob, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		log.Printf("document load failed: %v", err)
		return models.NewDocument()
	}
	if !ok {
		doc := models.NewDocument()
		doc.Settings.LastUpdated = s.now()
		if raw, err := json.Marshal(doc); err == nil {
			if err := s.backend.Set(ctx, s.key, raw); err != nil {
				log.Printf("document bootstrap write failed: %v", err)
			}
		}
		return doc
	}

	var doc models.Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		log.Printf("document blob corrupt, recovering with empty document: %v", err)
		return models.NewDocument()
	}
	normalize(&doc)
	return doc
}

// Save stamps lastUpdated, bumps the revision and writes the whole document
// back. It fails with apperrors.ErrConflict when the stored revision no
// longer matches the one the caller loaded, and apperrors.ErrStorage on
// backend or serialization failure. Nothing is partially written: the
// in-memory document stays untouched on failure except for the stamps on
// success.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	stored, err := s.storedRevision(ctx)
	if err != nil {
		log.Printf("document save failed reading current revision: %v", err)
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if stored != doc.Settings.Revision {
		return fmt.Errorf("%w: document revision changed (loaded %d, stored %d)",
			apperrors.ErrConflict, doc.Settings.Revision, stored)
	}

	doc.Settings.Version = models.DocumentVersion
	doc.Settings.LastUpdated = s.now()
	doc.Settings.Revision++

	raw, err := json.Marshal(doc)
	if err != nil {
		doc.Settings.Revision--
		log.Printf("document serialize failed: %v", err)
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		doc.Settings.Revision--
		log.Printf("document write failed: %v", err)
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Reset deletes both the document and session slots and re-runs bootstrap.
func (s *Store) Reset(ctx context.Context) models.Document {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		log.Printf("document slot delete failed: %v", err)
	}
	if err := s.backend.Delete(ctx, s.sessionKey); err != nil {
		log.Printf("session slot delete failed: %v", err)
	}
	return s.Load(ctx)
}

func (s *Store) storedRevision(ctx context.Context) (int64, error) {
	blob, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	var peek struct {
		Settings models.Settings `json:"settings"`
	}
	if err := json.Unmarshal(blob, &peek); err != nil {
		// Corrupt blob: the next save may overwrite it.
		return 0, nil
	}
	return peek.Settings.Revision, nil
}

// normalize guarantees the three collections are non-nil after decode so a
// document round-trips with all of them present.
func normalize(doc *models.Document) {
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	if doc.Events == nil {
		doc.Events = []models.Event{}
	}
	if doc.Orders == nil {
		doc.Orders = []models.Order{}
	}
}
