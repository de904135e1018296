package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculatePricePerSqft(t *testing.T) {
	price := 350000.0
	sqft := 1200
	p := &Property{Price: &price, SquareFeet: &sqft}

	p.RecalculatePricePerSqft()

	require.NotNil(t, p.PricePerSqft)
	assert.Equal(t, 291.67, *p.PricePerSqft)
}

func TestRecalculatePricePerSqftMissingInputs(t *testing.T) {
	price := 350000.0
	sqft := 1200
	stale := 999.99

	tests := []struct {
		name string
		prop Property
	}{
		{"no price", Property{SquareFeet: &sqft, PricePerSqft: &stale}},
		{"no square feet", Property{Price: &price, PricePerSqft: &stale}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prop.RecalculatePricePerSqft()
			require.NotNil(t, tt.prop.PricePerSqft)
			assert.Equal(t, stale, *tt.prop.PricePerSqft, "field must be left untouched")
		})
	}
}

func TestRecalculatePricePerSqftZeroSquareFeet(t *testing.T) {
	price := 350000.0
	zero := 0
	p := &Property{Price: &price, SquareFeet: &zero}

	p.RecalculatePricePerSqft()

	assert.Nil(t, p.PricePerSqft)
}

func TestFullAddress(t *testing.T) {
	addr := "Calle Reforma #120"
	city := "Guadalajara"
	state := "Jalisco"
	zip := "MX-44100"

	p := &Property{Address: &addr, City: &city, State: &state, ZipCode: &zip}
	assert.Equal(t, "Calle Reforma #120, Guadalajara, Jalisco, MX-44100", p.FullAddress())

	empty := ""
	p.State = nil
	p.ZipCode = &empty
	assert.Equal(t, "Calle Reforma #120, Guadalajara", p.FullAddress())

	assert.Equal(t, "", (&Property{}).FullAddress())
}

func TestFormattedZipCode(t *testing.T) {
	withPrefix := "MX-44100"
	bare := "44100"

	p := &Property{ZipCode: &withPrefix}
	assert.Equal(t, "MX-44100", p.FormattedZipCode())

	p.ZipCode = &bare
	assert.Equal(t, "MX-44100", p.FormattedZipCode())

	p.ZipCode = nil
	assert.Equal(t, "", p.FormattedZipCode())
}

func TestFeatureOperations(t *testing.T) {
	p := &Property{}

	p.AddFeature("balcony")
	p.AddFeature("parking")
	p.AddFeature("balcony")
	assert.Equal(t, StringList{"balcony", "parking"}, p.Features, "duplicate add must be a no-op")

	assert.True(t, p.HasFeature("parking"))
	assert.False(t, p.HasFeature("fireplace"))

	p.RemoveFeature("balcony")
	assert.Equal(t, StringList{"parking"}, p.Features)

	p.RemoveFeature("fireplace")
	assert.Equal(t, StringList{"parking"}, p.Features, "absent remove must be a no-op")
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["pool","garden"]`)))
	assert.Equal(t, StringList{"pool", "garden"}, l)

	var fromString StringList
	require.NoError(t, fromString.Scan(`["patio"]`))
	assert.Equal(t, StringList{"patio"}, fromString)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, StringList{}, fromNil)

	assert.Error(t, l.Scan(42))
}

func TestStringListValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v.([]byte)))

	v, err = StringList{"pool"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["pool"]`, string(v.([]byte)))
}

func TestJSONMapRoundTrip(t *testing.T) {
	v, err := JSONMap{"mls_number": "12345678"}.Value()
	require.NoError(t, err)

	var m JSONMap
	require.NoError(t, m.Scan(v))
	assert.Equal(t, "12345678", m["mls_number"])

	var fromNil JSONMap
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, JSONMap{}, fromNil)

	nilValue, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(nilValue.([]byte)))
}

func TestValidVocabularies(t *testing.T) {
	assert.Len(t, ValidPropertyTypes(), 5)
	assert.Contains(t, ValidPropertyTypes(), PropertyTypeDepartamento)

	assert.Len(t, ValidPropertyStatuses(), 4)
	assert.Contains(t, ValidPropertyStatuses(), PropertyStatusRentada)
}
