package geocoding

import (
	"context"

	"github.com/krople/gpsmapp/internal/models"
)

// Provider is an interface that defines a method for reverse geocoding.
// The Reverse method takes a context and a point as input,
// and returns a human readable address and an error if any occurs.
type Provider interface {
	Reverse(ctx context.Context, coords models.Coordinates) (string, error)
}
