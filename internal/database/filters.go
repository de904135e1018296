package database

import (
	"math"
	"strings"
)

const defaultPerPage = 15

// sortColumns is the whitelist of sortable columns. Anything else silently
// falls back to the default ordering (created_at DESC).
var sortColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"price":       true,
	"square_feet": true,
	"bedrooms":    true,
	"bathrooms":   true,
}

// predicate is one narrowing condition over the properties table. The
// placeholder style is `?`; the PostgreSQL store rebinds to $N.
type predicate struct {
	expr string
	args []interface{}
}

// PropertyFilters is the set of independent, optional listing criteria.
// Absent criteria (zero values / nil pointers) impose no constraint. Inputs
// are pre-validated at the HTTP boundary; the composer never rejects.
type PropertyFilters struct {
	City          string
	PropertyType  string
	Status        string
	Bedrooms      *int
	Bathrooms     *int
	MinPrice      *float64
	MaxPrice      *float64
	SortBy        string
	SortDirection string
	Page          int
	PerPage       int
}

// predicates compiles each supplied criterion into exactly one predicate,
// all ANDed together.
func (f PropertyFilters) predicates() []predicate {
	var preds []predicate
	if f.City != "" {
		preds = append(preds, predicate{"LOWER(city) LIKE ?", []interface{}{"%" + strings.ToLower(f.City) + "%"}})
	}
	if f.PropertyType != "" {
		preds = append(preds, predicate{"property_type = ?", []interface{}{f.PropertyType}})
	}
	if f.Status != "" {
		preds = append(preds, predicate{"status = ?", []interface{}{f.Status}})
	}
	if f.Bedrooms != nil {
		preds = append(preds, predicate{"bedrooms >= ?", []interface{}{*f.Bedrooms}})
	}
	if f.Bathrooms != nil {
		preds = append(preds, predicate{"bathrooms >= ?", []interface{}{*f.Bathrooms}})
	}
	if f.MinPrice != nil {
		preds = append(preds, predicate{"price >= ?", []interface{}{*f.MinPrice}})
	}
	if f.MaxPrice != nil {
		preds = append(preds, predicate{"price <= ?", []interface{}{*f.MaxPrice}})
	}
	return preds
}

// orderClause maps the requested sort to a safe ORDER BY. Unrecognized sort
// keys are not an error, they degrade to the default.
func (f PropertyFilters) orderClause() string {
	col := f.SortBy
	if !sortColumns[col] {
		return "created_at DESC"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortDirection, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

// page returns the 1-based page number.
func (f PropertyFilters) page() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// perPage returns the page size, defaulting to 15.
func (f PropertyFilters) perPage() int {
	if f.PerPage < 1 {
		return defaultPerPage
	}
	return f.PerPage
}

func (f PropertyFilters) offset() int {
	return (f.page() - 1) * f.perPage()
}

// SearchParams drives the free-text and geographic search endpoint.
type SearchParams struct {
	Query     string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
	Page      int
	PerPage   int
}

// GeoActive reports whether the bounding-box filter applies. Both coordinates
// must be present together; a lone latitude or longitude is ignored rather
// than applied as a single-field filter.
func (s SearchParams) GeoActive() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// radiusKm returns the search radius, defaulting to 10 km.
func (s SearchParams) radiusKm() float64 {
	if s.Radius == nil {
		return 10
	}
	return *s.Radius
}

// boundingBox converts the radius into latitude/longitude deltas. This is a
// rectangular approximation, not a geodesic radius: points near the box
// corners may be included slightly outside the nominal radius, and points
// slightly inside it may be excluded.
func (s SearchParams) boundingBox() (latMin, latMax, lngMin, lngMax float64) {
	lat, lng, r := *s.Latitude, *s.Longitude, s.radiusKm()
	latDelta := r / 111 // approximate km per degree
	lngDelta := r / (111 * math.Cos(lat*math.Pi/180))
	return lat - latDelta, lat + latDelta, lng - lngDelta, lng + lngDelta
}

// predicates compiles the search criteria. The free-text term ORs a
// case-insensitive substring match across title, description, address and
// city; the bounding box ANDs in on top when active.
func (s SearchParams) predicates() []predicate {
	var preds []predicate
	if s.Query != "" {
		term := "%" + strings.ToLower(s.Query) + "%"
		preds = append(preds, predicate{
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ? OR LOWER(city) LIKE ?)",
			[]interface{}{term, term, term, term},
		})
	}
	if s.GeoActive() {
		latMin, latMax, lngMin, lngMax := s.boundingBox()
		preds = append(preds,
			predicate{"latitude BETWEEN ? AND ?", []interface{}{latMin, latMax}},
			predicate{"longitude BETWEEN ? AND ?", []interface{}{lngMin, lngMax}},
		)
	}
	return preds
}

func (s SearchParams) page() int {
	if s.Page < 1 {
		return 1
	}
	return s.Page
}

func (s SearchParams) perPage() int {
	if s.PerPage < 1 {
		return defaultPerPage
	}
	return s.PerPage
}

func (s SearchParams) offset() int {
	return (s.page() - 1) * s.perPage()
}
