package database

import (
	"context"
	"errors"

	"real-estate-listings/internal/models"
)

// ErrNotFound is returned when a referenced property does not exist.
var ErrNotFound = errors.New("property not found")

// PropertyPage is one page of a filtered listing.
type PropertyPage struct {
	Items   []models.Property `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// PropertyStats is a full-collection aggregate snapshot. Every call recomputes
// from current data; nothing is cached.
type PropertyStats struct {
	TotalProperties     int64            `json:"total_properties"`
	AvailableProperties int64            `json:"available_properties"`
	SoldProperties      int64            `json:"sold_properties"`
	RentedProperties    int64            `json:"rented_properties"`
	AveragePrice        *float64         `json:"average_price"`
	AveragePricePerSqft *float64         `json:"average_price_per_sqft"`
	AverageSquareFeet   *float64         `json:"average_square_feet"`
	PropertyTypes       map[string]int64 `json:"property_types"`
}

// Store is the persistence boundary for property listings. Both the MySQL
// (GORM) and PostgreSQL (sqlx) implementations satisfy it.
type Store interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	// GetProperty returns the property with its owner loaded when one is set.
	GetProperty(ctx context.Context, id uint) (*models.Property, error)
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id uint) error
	ListProperties(ctx context.Context, f PropertyFilters) (*PropertyPage, error)
	SearchProperties(ctx context.Context, params SearchParams) (*PropertyPage, error)
	Stats(ctx context.Context) (*PropertyStats, error)
	UserExists(ctx context.Context, id uint) (bool, error)
	Close() error
}
