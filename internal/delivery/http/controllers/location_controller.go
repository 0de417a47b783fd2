package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventify/internal/delivery/http/helpers"
	"eventify/internal/domain"
)

type LocationController struct {
	Logger  *slog.Logger
	Service domain.LocationService
}

func NewLocationController(logger *slog.Logger, svc domain.LocationService) *LocationController {
	return &LocationController{Logger: logger, Service: svc}
}

// LocationRequest is the request body for creating and updating locations.
type LocationRequest struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Capacity     int      `json:"capacity"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url"`
	IsActive     *bool    `json:"is_active"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ContactEmail *string  `json:"contact_email"`
	ContactPhone *string  `json:"contact_phone"`
}

// Validate implements Validator.
func (l LocationRequest) Validate() []string {
	var errs []string
	if l.Name == "" {
		errs = append(errs, "name is required")
	}
	if l.Address == "" {
		errs = append(errs, "address is required")
	}
	if l.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	if l.ContactEmail != nil && *l.ContactEmail != "" && !emailRegex.MatchString(*l.ContactEmail) {
		errs = append(errs, "contact_email format is invalid")
	}
	return errs
}

func (l LocationRequest) toLocation(now time.Time) *domain.Location {
	active := true
	if l.IsActive != nil {
		active = *l.IsActive
	}
	return &domain.Location{
		Name:         l.Name,
		Address:      l.Address,
		Capacity:     l.Capacity,
		Description:  l.Description,
		ImageURL:     l.ImageURL,
		IsActive:     active,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		ContactEmail: l.ContactEmail,
		ContactPhone: l.ContactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// LocationListData is the payload of a paginated location list.
type LocationListData struct {
	Locations  []*domain.Location     `json:"locations"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// LocationListSuccessResponse is the success envelope for GET /locations.
type LocationListSuccessResponse struct {
	Data  *LocationListData `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// LocationSuccessResponse is the success envelope carrying a single location.
type LocationSuccessResponse struct {
	Data  *domain.Location  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ActiveLocationsSuccessResponse is the success envelope for GET /locations/active.
type ActiveLocationsSuccessResponse struct {
	Data  []*domain.Location `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// List godoc
// @Summary List locations
// @Description Returns a page of locations. Admin only; use /locations/active for the public list.
// @Tags locations
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against name and address"
// @Param is_active query bool false "Filter by active flag"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.LocationListSuccessResponse "data contains locations and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations [get]
func (c *LocationController) List(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	var isActive *bool
	switch r.URL.Query().Get("is_active") {
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	case "":
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "is_active must be true or false")
		return
	}
	params := helpers.ParsePagination(r)
	locations, total, err := c.Service.List(r.Context(), r.URL.Query().Get("search"), isActive, params, role)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LocationListData{
		Locations:  locations,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ListActive godoc
// @Summary List active locations
// @Description Returns all active venues. No authentication required.
// @Tags locations
// @Produce json
// @Success 200 {object} controllers.ActiveLocationsSuccessResponse "data contains active locations"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations/active [get]
func (c *LocationController) ListActive(w http.ResponseWriter, r *http.Request) {
	locations, err := c.Service.ListActive(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, locations)
}

// GetByID godoc
// @Summary Get a location
// @Tags locations
// @Produce json
// @Param locationID path string true "Location ID"
// @Success 200 {object} controllers.LocationSuccessResponse "data contains the location"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations/{locationID} [get]
func (c *LocationController) GetByID(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathValue(w, r, "locationID")
	if !ok {
		return
	}
	location, err := c.Service.GetByID(r.Context(), locationID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, location)
}

// Create godoc
// @Summary Create a location
// @Description Admin only.
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LocationRequest true "Location data"
// @Success 201 {object} controllers.LocationSuccessResponse "data contains the created location"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations [post]
func (c *LocationController) Create(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	var req LocationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	location, err := c.Service.Create(r.Context(), req.toLocation(time.Now().UTC()), role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, location)
}

// Update godoc
// @Summary Update a location
// @Description Replaces the location's fields. Admin only.
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param locationID path string true "Location ID"
// @Param body body LocationRequest true "Location data"
// @Success 200 {object} controllers.LocationSuccessResponse "data contains the updated location"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations/{locationID} [put]
func (c *LocationController) Update(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	locationID, ok := pathValue(w, r, "locationID")
	if !ok {
		return
	}
	var req LocationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	loc := req.toLocation(time.Now().UTC())
	loc.ID = locationID
	location, err := c.Service.Update(r.Context(), loc, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, location)
}

// Delete godoc
// @Summary Delete a location
// @Description Removes a location that no event references. Admin only.
// @Tags locations
// @Security BearerAuth
// @Param locationID path string true "Location ID"
// @Success 204 "location deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (location is referenced by events)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations/{locationID} [delete]
func (c *LocationController) Delete(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	locationID, ok := pathValue(w, r, "locationID")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), locationID, role); err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
