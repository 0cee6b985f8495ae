package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Residential(t *testing.T) {
	ok := Property{Type: TypeCasa, Bedrooms: iptr(3), Bathrooms: iptr(2), Area: fptr(200), Price: fptr(200000)}
	assert.Empty(t, Validate(ok))

	missing := Property{Type: TypeVilla}
	errs := Validate(missing)
	assert.Len(t, errs, 4)
}

func TestValidate_Solar(t *testing.T) {
	p := Property{Type: TypeSolares, Area: fptr(1000), Price: fptr(50000), Bedrooms: iptr(2), Amenities: []string{"Piscina"}}
	errs := Validate(p)
	assert.Contains(t, errs, "Los solares no deben tener habitaciones")
	assert.Contains(t, errs, "Los solares no deben tener amenidades residenciales")
	assert.NotContains(t, errs, "Los solares no deben tener baños")

	zeroRooms := Property{Type: TypeSolar, Area: fptr(1000), Price: fptr(50000), Bedrooms: iptr(0)}
	assert.Empty(t, Validate(zeroRooms))
}

func TestValidate_Commercial(t *testing.T) {
	p := Property{Type: TypeLocalComercial, Area: fptr(100), Price: fptr(100000), Amenities: []string{"Piscina climatizada", "Parqueo"}}
	errs := Validate(p)
	assert.Equal(t, []string{"Los locales comerciales no deben tener amenidades residenciales como: Piscina climatizada"}, errs)
}

func TestValidate_PricePerSqmBand(t *testing.T) {
	cheap := Property{Type: TypeApartamento, Bedrooms: iptr(2), Bathrooms: iptr(1), Area: fptr(100), Price: fptr(5000)}
	errs := Validate(cheap)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "muy bajo")

	pricey := Property{Type: TypeSolar, Area: fptr(10), Price: fptr(100000)}
	errs = Validate(pricey)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "muy alto")
}

func TestValidate_UnknownType(t *testing.T) {
	assert.Equal(t, []string{"El tipo de propiedad es requerido"}, Validate(Property{}))
	assert.Equal(t, []string{"Tipo de propiedad no reconocido: Castillo"}, Validate(Property{Type: "Castillo"}))
}

func TestCheck(t *testing.T) {
	err := Check(Property{Title: "x", SaleType: "Venta"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{ErrTypeRequired.Error()}, verr.Problems)

	err = Check(Property{Title: "Casa", Type: TypeCasa, SaleType: "Venta"})
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 4)

	ok := Property{Title: "Casa", Type: TypeCasa, SaleType: "Venta", Bedrooms: iptr(3), Bathrooms: iptr(2), Area: fptr(200), Price: fptr(200000)}
	assert.NoError(t, Check(ok))
}
