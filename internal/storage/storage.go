// Package storage is the console's local-storage: a small key/value store
// holding the persisted session.
package storage

import (
	"context"
	"fmt"
)

// Session keys. The console writes only KeyToken and KeyUser.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Legacy keys written by the older auth flow. They are read once for
// migration and otherwise only ever removed.
const (
	LegacyKeyAccessToken  = "accessToken"
	LegacyKeyRefreshToken = "refreshToken"
	LegacyKeyUserID       = "userId"
	LegacyKeyUserEmail    = "userEmail"
	LegacyKeyUserRole     = "userRole"
)

var LegacyKeys = []string{
	LegacyKeyAccessToken,
	LegacyKeyRefreshToken,
	LegacyKeyUserID,
	LegacyKeyUserEmail,
	LegacyKeyUserRole,
}

type Storage interface {
	// Get reports whether key is present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for missing keys.
	Remove(ctx context.Context, key string) error
}

// RemoveAll removes every key, returning the first error.
func RemoveAll(ctx context.Context, s Storage, keys ...string) error {
	var firstErr error
	for _, k := range keys {
		if err := s.Remove(ctx, k); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %q: %w", k, err)
		}
	}
	return firstErr
}
