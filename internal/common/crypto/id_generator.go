package crypto

import "github.com/google/uuid"

// IDGenerator mints user ids. Injected so services and bootstrap stay
// deterministic under test.
type IDGenerator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a random UUID; users carry these as opaque primary keys.
func (g *UUIDGenerator) NewID() (string, error) {
	return uuid.NewString(), nil
}
