package policies

import (
	"context"

	domainproperties "milhouse/internal/domain/properties"
)

// PropertySnapshot serves the full property collection the query engine runs on.
// Implementations may cache; Invalidate is called after every mutation.
type PropertySnapshot interface {
	Load(ctx context.Context) ([]domainproperties.Property, error)
	Invalidate()
}
