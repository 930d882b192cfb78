// credentialstore/storage.go
/* Package credentialstore keeps the session token, role and the one-time session-expired
message in a persistent key-value backend. The Store never surfaces backend failures to its
callers: a broken backend reads as an empty session. */
package credentialstore

import (
	"context"
	"errors"
)

// Keys under which the session is persisted.
const (
	TokenKey          = "token"
	RoleKey           = "role"
	ExpiredMessageKey = "sessionExpiredMessage"
)

// ErrKeyNotFound is returned by Storage.Get when the key holds no value.
var ErrKeyNotFound = errors.New("credentialstore: key not found")

// Storage is the persistent client-side key-value backend. Values are strings.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Clear wipes every key owned by this backend, not only the session keys.
	Clear(ctx context.Context) error
}
