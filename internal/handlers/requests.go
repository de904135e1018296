package handlers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"real-estate-listings/internal/models"
)

func init() {
	// Report validation errors under the wire field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// PropertyPayload is the create/update request body. Every field is optional;
// partial updates distinguish absent keys from explicit nulls via the raw
// body (see PresentFields).
type PropertyPayload struct {
	Title         *string                `json:"title" binding:"omitempty,max=255"`
	Description   *string                `json:"description"`
	Address       *string                `json:"address" binding:"omitempty,max=255"`
	City          *string                `json:"city" binding:"omitempty,max=100"`
	State         *string                `json:"state" binding:"omitempty,max=50"`
	ZipCode       *string                `json:"zip_code" binding:"omitempty,max=20"`
	Latitude      *float64               `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude     *float64               `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	SquareFeet    *int                   `json:"square_feet" binding:"omitempty,gte=1"`
	Bedrooms      *int                   `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms     *int                   `json:"bathrooms" binding:"omitempty,gte=0"`
	Floors        *int                   `json:"floors" binding:"omitempty,gte=0"`
	Price         *float64               `json:"price" binding:"omitempty,gte=0"`
	MonthlyRent   *float64               `json:"monthly_rent" binding:"omitempty,gte=0"`
	PropertyTaxes *float64               `json:"property_taxes" binding:"omitempty,gte=0"`
	PropertyType  *string                `json:"property_type" binding:"omitempty,oneof=casa condominio departamento townhouse duplex"`
	Status        *string                `json:"status" binding:"omitempty,oneof=disponible pendiente vendida rentada"`
	YearBuilt     *int                   `json:"year_built" binding:"omitempty,gte=1800"`
	LotSize       *float64               `json:"lot_size" binding:"omitempty,gte=0"`
	GarageSpaces  *int                   `json:"garage_spaces" binding:"omitempty,gte=0"`
	HasBasement   *bool                  `json:"has_basement"`
	HasPool       *bool                  `json:"has_pool"`
	HasGarden     *bool                  `json:"has_garden"`
	Features      []string               `json:"features" binding:"omitempty,dive,max=100"`
	Metadata      map[string]interface{} `json:"metadata"`
	UserID        *uint                  `json:"user_id"`
}

// PresentFields returns the set of top-level keys the client actually sent,
// so explicit nulls can be told apart from untouched fields.
func PresentFields(body []byte) map[string]bool {
	var raw map[string]json.RawMessage
	present := map[string]bool{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return present
	}
	for k := range raw {
		present[k] = true
	}
	return present
}

// validateSemantics covers the rules binding tags cannot express. Returns
// per-field messages keyed by wire name.
func (p *PropertyPayload) validateSemantics() fieldErrors {
	errs := fieldErrors{}
	if p.YearBuilt != nil && *p.YearBuilt > time.Now().Year() {
		errs.add("year_built", "Year built cannot be in the future.")
	}
	return errs
}

// toModel builds a new Property from a create payload.
func (p *PropertyPayload) toModel() *models.Property {
	prop := &models.Property{
		Title:         p.Title,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		ZipCode:       p.ZipCode,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		SquareFeet:    p.SquareFeet,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Floors:        p.Floors,
		Price:         p.Price,
		MonthlyRent:   p.MonthlyRent,
		PropertyTaxes: p.PropertyTaxes,
		YearBuilt:     p.YearBuilt,
		LotSize:       p.LotSize,
		GarageSpaces:  p.GarageSpaces,
		Features:      models.StringList(p.Features),
		Metadata:      models.JSONMap(p.Metadata),
		UserID:        p.UserID,
	}
	if p.PropertyType != nil {
		t := models.PropertyType(*p.PropertyType)
		prop.PropertyType = &t
	}
	if p.Status != nil {
		prop.Status = models.PropertyStatus(*p.Status)
	} else {
		prop.Status = models.PropertyStatusDisponible
	}
	if p.HasBasement != nil {
		prop.HasBasement = *p.HasBasement
	}
	if p.HasPool != nil {
		prop.HasPool = *p.HasPool
	}
	if p.HasGarden != nil {
		prop.HasGarden = *p.HasGarden
	}
	prop.RecalculatePricePerSqft()
	return prop
}

// applyTo copies the supplied fields onto an existing property. A key that
// was sent as explicit null clears the column. Reports whether price or
// square_feet was touched, so the caller can re-derive price_per_sqft.
func (p *PropertyPayload) applyTo(prop *models.Property, present map[string]bool) (priceTouched bool) {
	if present["title"] {
		prop.Title = p.Title
	}
	if present["description"] {
		prop.Description = p.Description
	}
	if present["address"] {
		prop.Address = p.Address
	}
	if present["city"] {
		prop.City = p.City
	}
	if present["state"] {
		prop.State = p.State
	}
	if present["zip_code"] {
		prop.ZipCode = p.ZipCode
	}
	if present["latitude"] {
		prop.Latitude = p.Latitude
	}
	if present["longitude"] {
		prop.Longitude = p.Longitude
	}
	if present["square_feet"] {
		prop.SquareFeet = p.SquareFeet
		priceTouched = true
	}
	if present["bedrooms"] {
		prop.Bedrooms = p.Bedrooms
	}
	if present["bathrooms"] {
		prop.Bathrooms = p.Bathrooms
	}
	if present["floors"] {
		prop.Floors = p.Floors
	}
	if present["price"] {
		prop.Price = p.Price
		priceTouched = true
	}
	if present["monthly_rent"] {
		prop.MonthlyRent = p.MonthlyRent
	}
	if present["property_taxes"] {
		prop.PropertyTaxes = p.PropertyTaxes
	}
	if present["property_type"] {
		if p.PropertyType != nil {
			t := models.PropertyType(*p.PropertyType)
			prop.PropertyType = &t
		} else {
			prop.PropertyType = nil
		}
	}
	if present["status"] && p.Status != nil {
		prop.Status = models.PropertyStatus(*p.Status)
	}
	if present["year_built"] {
		prop.YearBuilt = p.YearBuilt
	}
	if present["lot_size"] {
		prop.LotSize = p.LotSize
	}
	if present["garage_spaces"] {
		prop.GarageSpaces = p.GarageSpaces
	}
	if present["has_basement"] && p.HasBasement != nil {
		prop.HasBasement = *p.HasBasement
	}
	if present["has_pool"] && p.HasPool != nil {
		prop.HasPool = *p.HasPool
	}
	if present["has_garden"] && p.HasGarden != nil {
		prop.HasGarden = *p.HasGarden
	}
	if present["features"] {
		prop.Features = models.StringList(p.Features)
	}
	if present["metadata"] {
		prop.Metadata = models.JSONMap(p.Metadata)
	}
	if present["user_id"] {
		prop.UserID = p.UserID
	}
	return priceTouched
}

// fieldErrors accumulates per-field validation messages for 422 bodies.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

func (e fieldErrors) merge(other fieldErrors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// validationMessages translates validator errors into the public per-field
// message vocabulary.
func validationMessages(err error) fieldErrors {
	errs := fieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("body", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.add(fe.Field(), messageFor(fe))
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "latitude":
		return "Latitude must be between -90 and 90 degrees."
	case "longitude":
		return "Longitude must be between -180 and 180 degrees."
	case "square_feet":
		return "Square feet must be at least 1."
	case "year_built":
		return "Year built cannot be before 1800."
	case "property_type":
		return "El tipo de propiedad debe ser: casa, condominio, departamento, townhouse o duplex."
	case "status":
		return "El estatus debe ser: disponible, pendiente, vendida o rentada."
	}
	switch fe.Tag() {
	case "max":
		return "The " + fe.Field() + " field is too long."
	case "gte", "min":
		return "The " + fe.Field() + " field must be at least " + fe.Param() + "."
	case "lte":
		return "The " + fe.Field() + " field must not be greater than " + fe.Param() + "."
	case "oneof":
		return "The selected " + fe.Field() + " is invalid."
	default:
		return "The " + fe.Field() + " field is invalid."
	}
}
