// Package identity produces the opaque identifiers used across the
// application: record IDs and guest cancellation tokens.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

const tokenPrefix = "cancel_"

// Generator mints collision-resistant opaque identifiers. Implementations
// must be safe for concurrent use.
type Generator interface {
	NewID() string
	NewCancellationToken() string
}

type uuidGenerator struct{}

// NewGenerator returns a UUID-backed Generator.
func NewGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// NewCancellationToken returns a prefixed token so tokens remain
// distinguishable from record IDs in logs and URLs.
func (uuidGenerator) NewCancellationToken() string {
	return tokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
