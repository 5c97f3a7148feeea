// Package kv abstracts the blob store behind the document and session
// slots. The core only ever needs get/set/delete on named slots; everything
// else (bootstrap, versioning, expiry) lives above this interface.
package kv

import "context"

type Backend interface {
	// Get returns the blob stored under key. The second return is false
	// when the slot is absent, which is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
