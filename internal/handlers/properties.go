package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"real-estate-listings/internal/database"
	"real-estate-listings/internal/models"
)

// echoedFilterKeys are the listing criteria echoed back in collection meta.
var echoedFilterKeys = []string{
	"city", "property_type", "status", "min_price", "max_price", "bedrooms", "bathrooms",
}

// PropertyHandler serves the /properties endpoints.
type PropertyHandler struct {
	store database.Store
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(store database.Store) *PropertyHandler {
	return &PropertyHandler{store: store}
}

// RegisterRoutes registers the property routes. The static /search and
// /stats paths are registered alongside the :id routes; gin resolves static
// segments first.
func (h *PropertyHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/properties", h.List)
	r.POST("/properties", h.Create)
	r.GET("/properties/search", h.Search)
	r.GET("/properties/stats", h.Stats)
	r.GET("/properties/:id", h.Show)
	r.PUT("/properties/:id", h.Update)
	r.PATCH("/properties/:id", h.Update)
	r.DELETE("/properties/:id", h.Delete)
}

// List handles GET /properties with filtering, sorting and pagination.
func (h *PropertyHandler) List(c *gin.Context) {
	filters, errs := parseListFilters(c)
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	page, err := h.store.ListProperties(c.Request.Context(), filters)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCollectionResponse(page, suppliedFilters(c)))
}

// Create handles POST /properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var payload PropertyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondValidation(c, validationMessages(err))
		return
	}

	errs := payload.validateSemantics()
	errs.merge(h.checkOwner(c, payload.UserID))
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	property := payload.toModel()
	if err := h.store.CreateProperty(c.Request.Context(), property); err != nil {
		respondStoreError(c, err)
		return
	}

	// Reload so the owner comes back alongside the fresh row.
	created, err := h.store.GetProperty(c.Request.Context(), property.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": NewPropertyResource(created)})
}

// Show handles GET /properties/:id.
func (h *PropertyHandler) Show(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	property, err := h.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": NewPropertyResource(property)})
}

// Update handles PUT and PATCH /properties/:id. Both apply the same partial
// semantics: only the supplied keys change.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var payload PropertyPayload
	if err := binding.JSON.BindBody(body, &payload); err != nil {
		respondValidation(c, validationMessages(err))
		return
	}

	errs := payload.validateSemantics()
	errs.merge(h.checkOwner(c, payload.UserID))
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	property, err := h.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if touched := payload.applyTo(property, PresentFields(body)); touched {
		property.RecalculatePricePerSqft()
	}

	if err := h.store.UpdateProperty(c.Request.Context(), property); err != nil {
		respondStoreError(c, err)
		return
	}

	updated, err := h.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": NewPropertyResource(updated)})
}

// Delete handles DELETE /properties/:id. The delete is unconditional and the
// response is a bare 204.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteProperty(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Search handles GET /properties/search: free-text plus bounding-box geo
// search. The geo filter is an approximation; see database.SearchParams.
func (h *PropertyHandler) Search(c *gin.Context) {
	params, errs := parseSearchParams(c)
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	page, err := h.store.SearchProperties(c.Request.Context(), params)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCollectionResponse(page, suppliedFilters(c)))
}

// Stats handles GET /properties/stats: a full-scan aggregate snapshot that
// ignores all filters.
func (h *PropertyHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// checkOwner verifies a referenced owner exists before any mutation.
func (h *PropertyHandler) checkOwner(c *gin.Context, userID *uint) fieldErrors {
	errs := fieldErrors{}
	if userID == nil {
		return errs
	}
	exists, err := h.store.UserExists(c.Request.Context(), *userID)
	if err != nil {
		log.Printf("[api] owner check failed: %v", err)
		errs.add("user_id", "The selected user id could not be verified.")
		return errs
	}
	if !exists {
		errs.add("user_id", "The selected user id is invalid.")
	}
	return errs
}

// propertyID parses the :id segment. A non-numeric id behaves like a missing
// row, not a malformed request.
func propertyID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return 0, false
	}
	return uint(id), true
}

func respondValidation(c *gin.Context, errs fieldErrors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	log.Printf("[api] store error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// parseListFilters validates and assembles the listing criteria. Numeric and
// enum filters are rejected at this boundary; an unrecognized sort_by is not
// an error and falls back to the default further down.
func parseListFilters(c *gin.Context) (database.PropertyFilters, fieldErrors) {
	errs := fieldErrors{}
	filters := database.PropertyFilters{
		City:          c.Query("city"),
		SortBy:        c.DefaultQuery("sort_by", "created_at"),
		SortDirection: c.DefaultQuery("sort_direction", "desc"),
	}

	if v := c.Query("property_type"); v != "" {
		if !validPropertyType(v) {
			errs.add("property_type", "El tipo de propiedad debe ser: casa, condominio, departamento, townhouse o duplex.")
		} else {
			filters.PropertyType = v
		}
	}
	if v := c.Query("status"); v != "" {
		if !validPropertyStatus(v) {
			errs.add("status", "El estatus debe ser: disponible, pendiente, vendida o rentada.")
		} else {
			filters.Status = v
		}
	}
	if v := c.Query("bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			errs.add("bedrooms", "The bedrooms filter must be a non-negative integer.")
		} else {
			filters.Bedrooms = &n
		}
	}
	if v := c.Query("bathrooms"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			errs.add("bathrooms", "The bathrooms filter must be a non-negative integer.")
		} else {
			filters.Bathrooms = &n
		}
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err != nil || f < 0 {
			errs.add("min_price", "The min_price filter must be a non-negative number.")
		} else {
			filters.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err != nil || f < 0 {
			errs.add("max_price", "The max_price filter must be a non-negative number.")
		} else {
			filters.MaxPrice = &f
		}
	}

	filters.Page, filters.PerPage = parsePagination(c, errs)
	return filters, errs
}

// parseSearchParams validates the search endpoint inputs. Geo search only
// activates when latitude and longitude arrive together; radius defaults to
// 10 km.
func parseSearchParams(c *gin.Context) (database.SearchParams, fieldErrors) {
	errs := fieldErrors{}
	params := database.SearchParams{Query: c.Query("q")}

	if len(params.Query) > 255 {
		errs.add("q", "The search term may not be longer than 255 characters.")
	}
	if v := c.Query("latitude"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err != nil || f < -90 || f > 90 {
			errs.add("latitude", "Latitude must be between -90 and 90 degrees.")
		} else {
			params.Latitude = &f
		}
	}
	if v := c.Query("longitude"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err != nil || f < -180 || f > 180 {
			errs.add("longitude", "Longitude must be between -180 and 180 degrees.")
		} else {
			params.Longitude = &f
		}
	}
	if v := c.Query("radius"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err != nil || f < 0.1 || f > 100 {
			errs.add("radius", "The radius must be between 0.1 and 100 kilometers.")
		} else {
			params.Radius = &f
		}
	}

	params.Page, params.PerPage = parsePagination(c, errs)
	return params, errs
}

func parsePagination(c *gin.Context, errs fieldErrors) (page, perPage int) {
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 1 {
			errs.add("page", "The page must be a positive integer.")
		} else {
			page = n
		}
	}
	if v := c.Query("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 1 {
			errs.add("per_page", "The per_page must be a positive integer.")
		} else {
			perPage = n
		}
	}
	return page, perPage
}

// suppliedFilters echoes back the subset of filter criteria the client sent.
func suppliedFilters(c *gin.Context) map[string]string {
	filters := map[string]string{}
	for _, key := range echoedFilterKeys {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}
	return filters
}

func validPropertyType(v string) bool {
	for _, t := range models.ValidPropertyTypes() {
		if string(t) == v {
			return true
		}
	}
	return false
}

func validPropertyStatus(v string) bool {
	for _, s := range models.ValidPropertyStatuses() {
		if string(s) == v {
			return true
		}
	}
	return false
}
