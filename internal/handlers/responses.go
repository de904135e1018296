package handlers

import (
	"real-estate-listings/internal/database"
	"real-estate-listings/internal/models"
)

// timestampFormat is the ISO-8601 wire format for timestamps (UTC, microseconds).
const timestampFormat = "2006-01-02T15:04:05.000000Z"

// PropertyResource is the stable public shape of one property. Columns are
// regrouped so the wire format is decoupled from storage layout.
type PropertyResource struct {
	ID          uint                    `json:"id"`
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Address     AddressResource         `json:"address"`
	Coordinates CoordinatesResource     `json:"coordinates"`
	Details     PropertyDetailsResource `json:"property_details"`
	Amenities   AmenitiesResource       `json:"amenities"`
	Financial   FinancialResource       `json:"financial"`
	Status      models.PropertyStatus   `json:"status"`
	Metadata    models.JSONMap          `json:"metadata"`
	Owner       *OwnerResource          `json:"owner,omitempty"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
}

type AddressResource struct {
	Street      *string `json:"street"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zip_code"`
	FullAddress string  `json:"full_address"`
}

type CoordinatesResource struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type PropertyDetailsResource struct {
	SquareFeet   *int                 `json:"square_feet"`
	Bedrooms     *int                 `json:"bedrooms"`
	Bathrooms    *int                 `json:"bathrooms"`
	Floors       *int                 `json:"floors"`
	PropertyType *models.PropertyType `json:"property_type"`
	YearBuilt    *int                 `json:"year_built"`
	LotSize      *float64             `json:"lot_size"`
	GarageSpaces *int                 `json:"garage_spaces"`
}

type AmenitiesResource struct {
	HasBasement bool              `json:"has_basement"`
	HasPool     bool              `json:"has_pool"`
	HasGarden   bool              `json:"has_garden"`
	Features    models.StringList `json:"features"`
}

type FinancialResource struct {
	Price         *float64 `json:"price"`
	PricePerSqft  *float64 `json:"price_per_sqft"`
	MonthlyRent   *float64 `json:"monthly_rent"`
	PropertyTaxes *float64 `json:"property_taxes"`
}

type OwnerResource struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewPropertyResource shapes one property. The owner block is present only
// when the owner was loaded alongside the entity; it is omitted, not null.
func NewPropertyResource(p *models.Property) PropertyResource {
	res := PropertyResource{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address: AddressResource{
			Street:      p.Address,
			City:        p.City,
			State:       p.State,
			ZipCode:     p.ZipCode,
			FullAddress: p.FullAddress(),
		},
		Coordinates: CoordinatesResource{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		},
		Details: PropertyDetailsResource{
			SquareFeet:   p.SquareFeet,
			Bedrooms:     p.Bedrooms,
			Bathrooms:    p.Bathrooms,
			Floors:       p.Floors,
			PropertyType: p.PropertyType,
			YearBuilt:    p.YearBuilt,
			LotSize:      p.LotSize,
			GarageSpaces: p.GarageSpaces,
		},
		Amenities: AmenitiesResource{
			HasBasement: p.HasBasement,
			HasPool:     p.HasPool,
			HasGarden:   p.HasGarden,
			Features:    p.Features,
		},
		Financial: FinancialResource{
			Price:         p.Price,
			PricePerSqft:  p.PricePerSqft,
			MonthlyRent:   p.MonthlyRent,
			PropertyTaxes: p.PropertyTaxes,
		},
		Status:    p.Status,
		Metadata:  p.Metadata,
		CreatedAt: p.CreatedAt.UTC().Format(timestampFormat),
		UpdatedAt: p.UpdatedAt.UTC().Format(timestampFormat),
	}
	if res.Amenities.Features == nil {
		res.Amenities.Features = models.StringList{}
	}
	if res.Metadata == nil {
		res.Metadata = models.JSONMap{}
	}
	if p.User != nil {
		res.Owner = &OwnerResource{ID: p.User.ID, Name: p.User.Name, Email: p.User.Email}
	}
	return res
}

// CollectionResponse wraps a page of properties with the echoed filters and
// a canonical link to the collection endpoint.
type CollectionResponse struct {
	Data  []PropertyResource `json:"data"`
	Meta  CollectionMeta     `json:"meta"`
	Links CollectionLinks    `json:"links"`
}

type CollectionMeta struct {
	// Total is the number of items in the current page.
	Total      int               `json:"total"`
	Filters    map[string]string `json:"filters"`
	Pagination PaginationMeta    `json:"pagination"`
}

type PaginationMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

type CollectionLinks struct {
	Self string `json:"self"`
}

// NewCollectionResponse shapes one result page. filters carries only the
// criteria the client actually supplied.
func NewCollectionResponse(page *database.PropertyPage, filters map[string]string) CollectionResponse {
	data := make([]PropertyResource, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, NewPropertyResource(&page.Items[i]))
	}
	if filters == nil {
		filters = map[string]string{}
	}
	return CollectionResponse{
		Data: data,
		Meta: CollectionMeta{
			Total:   len(data),
			Filters: filters,
			Pagination: PaginationMeta{
				Page:    page.Page,
				PerPage: page.PerPage,
				Total:   page.Total,
			},
		},
		Links: CollectionLinks{Self: "/properties"},
	}
}
