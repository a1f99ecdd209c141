package session

import (
	"context"
	"time"
)

// Store is a key-value store scoped to a login session. Values live at
// most as long as the session itself; ttl bounds that from above.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID, key string) error
}

func storageKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}
