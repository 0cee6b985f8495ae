package properties

import (
	"fmt"
	"strings"
)

type category int

const (
	categoryUnknown category = iota
	categoryResidential
	categorySolar
	categoryCommercial
)

func categoryOf(t string) category {
	switch {
	case IsSolarType(t):
		return categorySolar
	case strings.EqualFold(t, TypeLocalComercial):
		return categoryCommercial
	case strings.EqualFold(t, TypeCasa), strings.EqualFold(t, TypeApartamento),
		strings.EqualFold(t, TypePenthouse), strings.EqualFold(t, TypeVilla):
		return categoryResidential
	default:
		return categoryUnknown
	}
}

// IsResidentialType reports whether t is a house-like dwelling.
func IsResidentialType(t string) bool {
	return categoryOf(strings.TrimSpace(t)) == categoryResidential
}

var residentialAmenities = []string{"Piscina", "Jardín", "Terraza privada", "Balcón", "Cuarto de servicio"}

// pricePerSqmBand bounds USD/m² per category.
var pricePerSqmBand = map[category][2]float64{
	categorySolar:       {10, 5000},
	categoryCommercial:  {50, 10000},
	categoryResidential: {100, 15000},
}

// Validate applies the type-specific listing rules and returns every violation.
// An empty result means the property is acceptable.
func Validate(p Property) []string {
	var errs []string
	t := strings.TrimSpace(p.Type)
	if t == "" {
		return []string{"El tipo de propiedad es requerido"}
	}

	cat := categoryOf(t)
	switch cat {
	case categorySolar:
		if !positive(p.Area) {
			errs = append(errs, "El área del solar es requerida y debe ser mayor a 0")
		}
		if !positive(p.Price) {
			errs = append(errs, "El precio es requerido y debe ser mayor a 0")
		}
		if nonZero(p.Bedrooms) {
			errs = append(errs, "Los solares no deben tener habitaciones")
		}
		if nonZero(p.Bathrooms) {
			errs = append(errs, "Los solares no deben tener baños")
		}
		if len(p.Amenities) > 0 {
			errs = append(errs, "Los solares no deben tener amenidades residenciales")
		}
	case categoryResidential:
		if p.Bedrooms == nil || *p.Bedrooms < 0 {
			errs = append(errs, "El número de habitaciones es requerido y debe ser mayor o igual a 0")
		}
		if p.Bathrooms == nil || *p.Bathrooms <= 0 {
			errs = append(errs, "El número de baños es requerido y debe ser mayor a 0")
		}
		if !positive(p.Area) {
			errs = append(errs, "El área construida es requerida y debe ser mayor a 0")
		}
		if !positive(p.Price) {
			errs = append(errs, "El precio es requerido y debe ser mayor a 0")
		}
	case categoryCommercial:
		if !positive(p.Area) {
			errs = append(errs, "El área del local comercial es requerida y debe ser mayor a 0")
		}
		if !positive(p.Price) {
			errs = append(errs, "El precio es requerido y debe ser mayor a 0")
		}
		if nonZero(p.Bedrooms) {
			errs = append(errs, "Los locales comerciales no deben tener habitaciones")
		}
		for _, amenity := range p.Amenities {
			for _, residential := range residentialAmenities {
				if strings.Contains(strings.ToLower(amenity), strings.ToLower(residential)) {
					errs = append(errs, "Los locales comerciales no deben tener amenidades residenciales como: "+amenity)
					break
				}
			}
		}
	default:
		errs = append(errs, "Tipo de propiedad no reconocido: "+t)
	}

	return append(errs, checkPricePerSqm(p, cat)...)
}

func checkPricePerSqm(p Property, cat category) []string {
	if p.Price == nil || p.Area == nil || *p.Area <= 0 {
		return nil
	}
	band, ok := pricePerSqmBand[cat]
	if !ok {
		return nil
	}
	perSqm := *p.Price / *p.Area
	var errs []string
	if perSqm < band[0] {
		errs = append(errs, fmt.Sprintf("El precio por m² es muy bajo (%.2f USD/m²). Mínimo esperado: %.0f USD/m²", perSqm, band[0]))
	}
	if perSqm > band[1] {
		errs = append(errs, fmt.Sprintf("El precio por m² es muy alto (%.2f USD/m²). Máximo esperado: %.0f USD/m²", perSqm, band[1]))
	}
	return errs
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

func nonZero(v *int) bool {
	return v != nil && *v != 0
}

// ValidationError carries every rule a property violated.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "properties: invalid property"
	}
	return "properties: " + strings.Join(e.Problems, "; ")
}

// Check combines CheckRequired and Validate into a single error.
func Check(p Property) error {
	if err := p.CheckRequired(); err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	if problems := Validate(p); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
