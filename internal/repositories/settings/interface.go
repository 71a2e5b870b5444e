package settings

import "context"

// Repository is a small key/value store for app settings such as the PIN
// verifier. Get returns nil (no error) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
