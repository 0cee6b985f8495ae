package properties

import (
	"context"

	domainproperties "milhouse/internal/domain/properties"
)

// Validate rejects create and update commands whose payload breaks the listing
// rules. Other messages pass through. It plugs into middleware.Validation.
func Validate(_ context.Context, message any) error {
	switch cmd := message.(type) {
	case CreatePropertyCommand:
		return checkInput(cmd.Input.ToDomain())
	case UpdatePropertyCommand:
		if _, err := ParseID(cmd.ID); err != nil {
			return err
		}
		return checkInput(cmd.Input.ToDomain())
	}
	return nil
}

func checkInput(p domainproperties.Property) error {
	p.Normalize()
	return domainproperties.Check(p)
}
