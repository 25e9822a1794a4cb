package http

import (
	"github.com/go-api-filestore/internal/pkg/creds"
	"github.com/go-api-filestore/internal/storage"
)

// Deps holds the infrastructure dependencies the router wires into services.
// The storage backend is chosen at startup; everything above it only sees
// the Store interface.
type Deps struct {
	Store  storage.Store
	Hasher *creds.Hasher
}
