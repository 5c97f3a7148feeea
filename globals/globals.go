package globals

import (
	"context"
	"os"
)

var (
	JwtSecret = []byte(envOr("JWT_SECRET", "tessera_dev_secret")) // override via env in production
)

// Backend slot names. The document and session slots are independent
// namespaces; clearing one never touches the other.
const (
	DocumentSlot = "tessera:document"
	SessionSlot  = "tessera:session"
)

var Ctx = context.Background()

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
