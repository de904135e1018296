package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real-estate-listings/internal/database"
	"real-estate-listings/internal/models"
)

type countingStore struct {
	database.Store
	created []*models.Property
}

func (c *countingStore) CreateProperty(_ context.Context, p *models.Property) error {
	c.created = append(c.created, p)
	return nil
}

func TestGeneratorIsDeterministic(t *testing.T) {
	a := NewGenerator(42).Property(ProfileRegular)
	b := NewGenerator(42).Property(ProfileRegular)

	assert.Equal(t, a, b)
}

func TestRegularProperty(t *testing.T) {
	p := NewGenerator(1).Property(ProfileRegular)

	require.NotNil(t, p.City)
	require.NotNil(t, p.State)
	assert.Contains(t, citiesByState[*p.State], *p.City, "city belongs to its state")

	require.NotNil(t, p.ZipCode)
	assert.True(t, strings.HasPrefix(*p.ZipCode, "MX-"))
	assert.Len(t, *p.ZipCode, 8)

	require.NotNil(t, p.Latitude)
	assert.GreaterOrEqual(t, *p.Latitude, 14.5)
	assert.LessOrEqual(t, *p.Latitude, 32.7)

	require.NotNil(t, p.Price)
	require.NotNil(t, p.SquareFeet)
	require.NotNil(t, p.PricePerSqft, "derived field is populated")

	assert.GreaterOrEqual(t, len(p.Features), 2)
	seen := map[string]bool{}
	for _, f := range p.Features {
		assert.False(t, seen[f], "features are unique")
		seen[f] = true
	}

	assert.Contains(t, p.Metadata, "mls_number")
	assert.Contains(t, p.Metadata, "listing_agent")
}

func TestForRentProfile(t *testing.T) {
	p := NewGenerator(1).Property(ProfileForRent)

	assert.Equal(t, models.PropertyStatusDisponible, p.Status)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.PricePerSqft)
	require.NotNil(t, p.MonthlyRent)
	assert.GreaterOrEqual(t, *p.MonthlyRent, 800.0)
}

func TestForSaleProfile(t *testing.T) {
	p := NewGenerator(1).Property(ProfileForSale)

	assert.Equal(t, models.PropertyStatusDisponible, p.Status)
	assert.Nil(t, p.MonthlyRent)
	require.NotNil(t, p.Price)
}

func TestSoldProfile(t *testing.T) {
	p := NewGenerator(1).Property(ProfileSold)
	assert.Equal(t, models.PropertyStatusVendida, p.Status)
}

func TestLuxuryProfile(t *testing.T) {
	p := NewGenerator(1).Property(ProfileLuxury)

	require.NotNil(t, p.SquareFeet)
	assert.GreaterOrEqual(t, *p.SquareFeet, 3000)
	require.NotNil(t, p.Bedrooms)
	assert.GreaterOrEqual(t, *p.Bedrooms, 4)
	assert.Contains(t, p.Features, "wine_cellar")
}

func TestRun(t *testing.T) {
	store := &countingStore{}

	n, err := Run(context.Background(), store, NewGenerator(1), []Plan{
		{ProfileRegular, 3},
		{ProfileSold, 2},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, store.created, 5)
	assert.Equal(t, models.PropertyStatusVendida, store.created[4].Status)
}
