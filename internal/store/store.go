// Package store provides in-memory state for learner profiles and chat
// sessions. Each entity is guarded by its own mutex so that concurrent
// updates to different users or sessions never serialize against each
// other; the store-level lock only protects map membership.
package store

import (
	"errors"
)

// ErrNotFound is returned when a lookup references an unknown identifier.
var ErrNotFound = errors.New("not found")
