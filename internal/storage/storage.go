package storage

import "context"

// Collection names. A collection is a named key space of records; nothing
// outside these two exists in the system.
const (
	CollectionUsers  = "users"
	CollectionTokens = "tokens"
)

// Store is the generic keyed record store. Records are single JSON documents
// addressed by (collection, key); the store is format-agnostic beyond that.
//
// Each call is individually atomic: Create must be an exclusive-create (two
// concurrent creates of the same key yield exactly one winner), Update is a
// whole-value replace that fails when the key is absent, and Read always
// reflects the latest completed write. Nothing is serialized across calls:
// read-modify-write sequences composed by callers are last-writer-wins.
//
// Implementations wrap domain.ErrConflict and domain.ErrNotFound so callers
// can discriminate with errors.Is; any other error is a storage failure.
type Store interface {
	Create(ctx context.Context, collection, key string, record interface{}) error
	Read(ctx context.Context, collection, key string, out interface{}) error
	Update(ctx context.Context, collection, key string, record interface{}) error
	Delete(ctx context.Context, collection, key string) error
}
