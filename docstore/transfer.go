package docstore

import (
	"context"
	"encoding/json"
	"log"

	"tessera/models"
)

// Export serializes the document plus export metadata as indented JSON.
// It is pure: nothing is written.
func (s *Store) Export(ctx context.Context) (string, error) {
	doc := s.Load(ctx)

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", err
	}

	exportedAt, err := json.Marshal(s.now())
	if err != nil {
		return "", err
	}
	version, err := json.Marshal(models.DocumentVersion)
	if err != nil {
		return "", err
	}
	payload["exportedAt"] = exportedAt
	payload["version"] = version

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Import parses text and fully replaces the stored document. The payload
// must carry non-null users, events and orders collections; anything else
// is rejected and the stored document stays untouched. Import reports
// success as a bool so callers can render "import failed" without
// special-casing the reason.
func (s *Store) Import(ctx context.Context, text string) bool {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &shape); err != nil {
		log.Printf("import rejected, malformed JSON: %v", err)
		return false
	}
	for _, required := range []string{"users", "events", "orders"} {
		raw, ok := shape[required]
		if !ok || string(raw) == "null" {
			log.Printf("import rejected, missing collection %q", required)
			return false
		}
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		log.Printf("import rejected, collection shape invalid: %v", err)
		return false
	}
	normalize(&doc)

	// Adopt the stored revision so the replace passes the revision check.
	current, err := s.storedRevision(ctx)
	if err != nil {
		log.Printf("import failed reading current revision: %v", err)
		return false
	}
	doc.Settings.Revision = current

	if err := s.Save(ctx, &doc); err != nil {
		log.Printf("import save failed: %v", err)
		return false
	}
	return true
}
