// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/inkwell-cms/api/internal/platform/constants"
)

// # Revocation Registry

// RevocationRegistry records bearer tokens invalidated before their natural
// expiry (logout blacklist). The registry is consulted on every authenticated
// request, so implementations must support concurrent reads.
type RevocationRegistry interface {

	/*
		Revoke marks the token string as permanently invalid.

		Description: expiresAt bounds how long the entry must be retained; past
		that moment the token is rejected by expiry anyway. Revoking an
		already-revoked token is a no-op.

		Parameters:
		  - context: context.Context
		  - tokenString: string
		  - expiresAt: time.Time

		Returns:
		  - error: Storage failures
	*/
	Revoke(context context.Context, tokenString string, expiresAt time.Time) error

	/*
		IsRevoked reports whether the token has been revoked.

		Parameters:
		  - context: context.Context
		  - tokenString: string

		Returns:
		  - bool: true if the token is on the blacklist
		  - error: Storage failures
	*/
	IsRevoked(context context.Context, tokenString string) (bool, error)
}

// # In-Memory Registry

// MemoryRevocationRegistry is the default, process-local registry.
//
// # Lifecycle
//
// Entries live until their recorded expiry passes, at which point a background
// sweep evicts them. A dropped entry cannot re-validate anything because the
// token it tracked is past expiry by then. A process restart empties the
// registry, implicitly un-revoking unexpired tokens; single-instance
// deployments accept this, everything else uses [RedisRevocationRegistry].
type MemoryRevocationRegistry struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationRegistry creates the registry and starts its eviction
// sweep. The sweep goroutine stops when ctx is cancelled.
func NewMemoryRevocationRegistry(ctx context.Context) *MemoryRevocationRegistry {
	registry := &MemoryRevocationRegistry{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}

	// Background janitor for expired entries
	go func() {
		ticker := time.NewTicker(constants.RevocationSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				registry.sweep()
			case <-ctx.Done():
				return
			}
		}
	}()

	return registry
}

/*
Revoke implements [RevocationRegistry].

Parameters:
  - _: context.Context (unused, the map is in-process)
  - tokenString: string
  - expiresAt: time.Time

Returns:
  - error: Always nil
*/
func (registry *MemoryRevocationRegistry) Revoke(_ context.Context, tokenString string, expiresAt time.Time) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.revoked[tokenString] = expiresAt
	return nil
}

/*
IsRevoked implements [RevocationRegistry].

Parameters:
  - _: context.Context (unused, the map is in-process)
  - tokenString: string

Returns:
  - bool: true if the token is on the blacklist
  - error: Always nil
*/
func (registry *MemoryRevocationRegistry) IsRevoked(_ context.Context, tokenString string) (bool, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, found := registry.revoked[tokenString]
	return found, nil
}

// Len reports the current number of retained entries.
func (registry *MemoryRevocationRegistry) Len() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return len(registry.revoked)
}

// sweep drops entries whose tokens have expired on their own.
func (registry *MemoryRevocationRegistry) sweep() {
	currentTime := registry.now()

	registry.mu.Lock()
	defer registry.mu.Unlock()
	for token, expiresAt := range registry.revoked {
		if expiresAt.Before(currentTime) {
			delete(registry.revoked, token)
		}
	}
}
