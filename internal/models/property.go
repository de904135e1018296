package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// PropertyType is the listing classification vocabulary.
type PropertyType string

const (
	PropertyTypeCasa         PropertyType = "casa"
	PropertyTypeCondominio   PropertyType = "condominio"
	PropertyTypeDepartamento PropertyType = "departamento"
	PropertyTypeTownhouse    PropertyType = "townhouse"
	PropertyTypeDuplex       PropertyType = "duplex"
)

// PropertyStatus is the listing lifecycle vocabulary.
type PropertyStatus string

const (
	PropertyStatusDisponible PropertyStatus = "disponible"
	PropertyStatusPendiente  PropertyStatus = "pendiente"
	PropertyStatusVendida    PropertyStatus = "vendida"
	PropertyStatusRentada    PropertyStatus = "rentada"
)

// ValidPropertyTypes lists the accepted property_type values.
func ValidPropertyTypes() []PropertyType {
	return []PropertyType{
		PropertyTypeCasa,
		PropertyTypeCondominio,
		PropertyTypeDepartamento,
		PropertyTypeTownhouse,
		PropertyTypeDuplex,
	}
}

// ValidPropertyStatuses lists the accepted status values.
func ValidPropertyStatuses() []PropertyStatus {
	return []PropertyStatus{
		PropertyStatusDisponible,
		PropertyStatusPendiente,
		PropertyStatusVendida,
		PropertyStatusRentada,
	}
}

// StringList is an order-preserving, duplicate-free list persisted as a JSON
// column. A nil list marshals to an empty array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// GormDataType tells GORM to create a JSON column.
func (StringList) GormDataType() string {
	return "json"
}

// Contains reports whether s is already in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// JSONMap is an opaque key-value map persisted as a JSON column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
}

// GormDataType tells GORM to create a JSON column.
func (JSONMap) GormDataType() string {
	return "json"
}

type Property struct {
	ID uint `gorm:"primaryKey" json:"id" db:"id"`

	// Basic information
	Title       *string `gorm:"type:varchar(255)" json:"title" db:"title"`
	Description *string `gorm:"type:text" json:"description" db:"description"`

	// Location
	Address   *string  `gorm:"type:varchar(255)" json:"address" db:"address"`
	City      *string  `gorm:"type:varchar(100);index:idx_city_state" json:"city" db:"city"`
	State     *string  `gorm:"type:varchar(50);index:idx_city_state" json:"state" db:"state"`
	ZipCode   *string  `gorm:"type:varchar(20)" json:"zip_code" db:"zip_code"`
	Latitude  *float64 `gorm:"type:decimal(10,8)" json:"latitude" db:"latitude"`
	Longitude *float64 `gorm:"type:decimal(11,8)" json:"longitude" db:"longitude"`

	// Core metrics
	SquareFeet *int `gorm:"type:int unsigned" json:"square_feet" db:"square_feet"`
	Bedrooms   *int `gorm:"type:int unsigned;index:idx_beds_baths" json:"bedrooms" db:"bedrooms"`
	Bathrooms  *int `gorm:"type:int unsigned;index:idx_beds_baths" json:"bathrooms" db:"bathrooms"`
	Floors     *int `gorm:"type:int unsigned" json:"floors" db:"floors"`

	// Financial information
	Price         *float64 `gorm:"type:decimal(12,2);index" json:"price" db:"price"`
	PricePerSqft  *float64 `gorm:"type:decimal(8,2)" json:"price_per_sqft" db:"price_per_sqft"`
	MonthlyRent   *float64 `gorm:"type:decimal(10,2)" json:"monthly_rent" db:"monthly_rent"`
	PropertyTaxes *float64 `gorm:"type:decimal(10,2)" json:"property_taxes" db:"property_taxes"`

	// Classification
	PropertyType *PropertyType  `gorm:"type:varchar(30);index:idx_type_status" json:"property_type" db:"property_type"`
	Status       PropertyStatus `gorm:"type:varchar(20);not null;default:'disponible';index:idx_type_status" json:"status" db:"status"`
	YearBuilt    *int           `gorm:"type:int" json:"year_built" db:"year_built"`
	LotSize      *float64       `gorm:"type:decimal(10,2)" json:"lot_size" db:"lot_size"`
	GarageSpaces *int           `gorm:"type:int unsigned" json:"garage_spaces" db:"garage_spaces"`
	HasBasement  bool           `gorm:"not null;default:false" json:"has_basement" db:"has_basement"`
	HasPool      bool           `gorm:"not null;default:false" json:"has_pool" db:"has_pool"`
	HasGarden    bool           `gorm:"not null;default:false" json:"has_garden" db:"has_garden"`

	// JSON columns, kept as opaque blobs rather than relationally decomposed
	Features StringList `gorm:"type:json" json:"features" db:"features"`
	Metadata JSONMap    `gorm:"type:json" json:"metadata" db:"metadata"`

	// Owner. Deleting the user nulls this out, it never cascades to the row.
	UserID *uint `gorm:"index" json:"user_id" db:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty" db:"-"`

	// Timestamps
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_created_at,sort:desc" json:"created_at" db:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at" db:"updated_at"`
}

// TableName pins the table name.
func (Property) TableName() string {
	return "properties"
}

// RecalculatePricePerSqft keeps price_per_sqft consistent with price and
// square_feet. The field is left untouched when either input is missing or
// square_feet is not positive.
func (p *Property) RecalculatePricePerSqft() {
	if p.Price == nil || p.SquareFeet == nil || *p.SquareFeet <= 0 {
		return
	}
	v := math.Round(*p.Price/float64(*p.SquareFeet)*100) / 100
	p.PricePerSqft = &v
}

// FullAddress joins street, city, state and zip code with ", ", dropping
// empty components.
func (p *Property) FullAddress() string {
	var parts []string
	for _, s := range []*string{p.Address, p.City, p.State, p.ZipCode} {
		if s != nil && *s != "" {
			parts = append(parts, *s)
		}
	}
	return strings.Join(parts, ", ")
}

// FormattedZipCode returns the zip code with the MX- country prefix, unless
// it already carries one.
func (p *Property) FormattedZipCode() string {
	if p.ZipCode == nil || *p.ZipCode == "" {
		return ""
	}
	if strings.Contains(*p.ZipCode, "-") {
		return *p.ZipCode
	}
	return "MX-" + *p.ZipCode
}

// HasFeature checks feature membership.
func (p *Property) HasFeature(feature string) bool {
	return p.Features.Contains(feature)
}

// AddFeature appends a feature. Adding an already-present feature is a no-op.
func (p *Property) AddFeature(feature string) {
	if p.Features.Contains(feature) {
		return
	}
	p.Features = append(p.Features, feature)
}

// RemoveFeature removes a feature. Removing an absent one is a no-op.
func (p *Property) RemoveFeature(feature string) {
	for i, v := range p.Features {
		if v == feature {
			p.Features = append(p.Features[:i], p.Features[i+1:]...)
			return
		}
	}
}
