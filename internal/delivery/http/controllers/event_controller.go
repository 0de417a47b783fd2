package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventify/internal/delivery/http/helpers"
	"eventify/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Capacity    int       `json:"capacity"`
	ImageURL    *string   `json:"image_url"`
	CategoryID  string    `json:"category_id"`
	LocationID  string    `json:"location_id"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if c.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if c.EndDate.IsZero() {
		errs = append(errs, "end_date is required")
	}
	if c.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	if c.CategoryID == "" {
		errs = append(errs, "category_id is required")
	}
	if c.LocationID == "" {
		errs = append(errs, "location_id is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Absent fields are left unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Capacity    *int       `json:"capacity"`
	ImageURL    *string    `json:"image_url"`
	CategoryID  *string    `json:"category_id"`
	LocationID  *string    `json:"location_id"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && *u.Title == "" {
		errs = append(errs, "title must not be empty")
	}
	if u.Capacity != nil && *u.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	if u.CategoryID != nil && *u.CategoryID == "" {
		errs = append(errs, "category_id must not be empty")
	}
	if u.LocationID != nil && *u.LocationID == "" {
		errs = append(errs, "location_id must not be empty")
	}
	return errs
}

func (u UpdateEventRequest) toPatch() domain.EventPatch {
	return domain.EventPatch{
		Title:       u.Title,
		Description: u.Description,
		StartDate:   u.StartDate,
		EndDate:     u.EndDate,
		Capacity:    u.Capacity,
		ImageURL:    u.ImageURL,
		CategoryID:  u.CategoryID,
		LocationID:  u.LocationID,
	}
}

// EventListData is the payload of a paginated event list.
type EventListData struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// EventListSuccessResponse is the success envelope for GET /events.
type EventListSuccessResponse struct {
	Data  *EventListData    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventDetailSuccessResponse is the success envelope carrying an event with its references.
type EventDetailSuccessResponse struct {
	Data  *domain.EventDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// EventSuccessResponse is the success envelope carrying a bare event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// parseEventFilter reads the list filters from the query string.
func parseEventFilter(r *http.Request) (domain.EventFilter, []string) {
	q := r.URL.Query()
	var errs []string
	filter := domain.EventFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category_id"),
		LocationID: q.Get("location_id"),
	}
	if s := q.Get("status"); s != "" {
		status := domain.EventStatus(s)
		if !status.Valid() {
			errs = append(errs, "status must be one of Draft, Published, Cancelled, Completed")
		} else {
			filter.Status = &status
		}
	}
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			errs = append(errs, "from must be an RFC 3339 timestamp")
		} else {
			filter.From = &t
		}
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			errs = append(errs, "to must be an RFC 3339 timestamp")
		} else {
			filter.To = &t
		}
	}
	switch s := q.Get("sort_by"); s {
	case "", "title", "created_at", "capacity", "start_date", "end_date", "registered_count":
		filter.SortBy = s
	default:
		errs = append(errs, "sort_by must be one of title, created_at, capacity, start_date, end_date, registered_count")
	}
	switch s := q.Get("sort_order"); s {
	case "", "asc":
	case "desc":
		filter.SortDesc = true
	default:
		errs = append(errs, "sort_order must be asc or desc")
	}
	return filter, errs
}

// List godoc
// @Summary List events
// @Description Returns a page of events matching the optional filters. No authentication required.
// @Tags events
// @Produce json
// @Param search query string false "Match against title and description"
// @Param status query string false "Event status" Enums(Draft, Published, Cancelled, Completed)
// @Param category_id query string false "Category ID"
// @Param location_id query string false "Location ID"
// @Param from query string false "Events starting at or after this RFC 3339 timestamp"
// @Param to query string false "Events starting at or before this RFC 3339 timestamp"
// @Param sort_by query string false "Sort field" Enums(title, created_at, capacity, start_date, end_date, registered_count)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseEventFilter(r)
	if len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListData{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetByID godoc
// @Summary Get an event
// @Description Returns the event with its location, category, and organizer. No authentication required.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventDetailSuccessResponse "data contains the event detail"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathValue(w, r, "eventID")
	if !ok {
		return
	}
	detail, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// MyEventsSuccessResponse is the success envelope for GET /events/my-events.
type MyEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMyEvents godoc
// @Summary List events organized by the current user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyEventsSuccessResponse "data contains the caller's events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/my-events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Description Creates an event in Draft status with zero registrations. The caller becomes the organizer.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventDetailSuccessResponse "data contains the created event detail"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown category or location)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(req.Title, req.Description, req.StartDate, req.EndDate, req.Capacity,
		userID, req.CategoryID, req.LocationID, time.Now().UTC())
	event.ImageURL = req.ImageURL
	detail, err := c.Service.Create(r.Context(), event, userID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// Update godoc
// @Summary Update an event
// @Description Applies a partial update. Capacity cannot drop below the current registered count.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventDetailSuccessResponse "data contains the updated event detail"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (capacity below registered count)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := pathValue(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	detail, err := c.Service.Update(r.Context(), eventID, req.toPatch(), userID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// Delete godoc
// @Summary Delete an event
// @Description Removes an event that has no registrations.
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "event deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event has registrations)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := pathValue(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), eventID, userID, role); err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish godoc
// @Summary Publish an event
// @Description Moves a Draft event to Published so users can register.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the published event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event is not a draft)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/publish [post]
func (c *EventController) Publish(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := pathValue(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.Publish(r.Context(), eventID, userID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Cancel godoc
// @Summary Cancel an event
// @Description Moves a Draft or Published event to Cancelled. Registrations are kept as a historical record.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the cancelled event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event already finished)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := pathValue(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.Cancel(r.Context(), eventID, userID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// StatsSuccessResponse is the success envelope for GET /events/stats.
type StatsSuccessResponse struct {
	Data  *domain.EventStats `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Stats godoc
// @Summary Get aggregate event statistics
// @Description Returns totals, occupancy, and per-category, per-status, and per-month breakdowns. Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StatsSuccessResponse "data contains the statistics"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/stats [get]
func (c *EventController) Stats(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	stats, err := c.Service.Stats(r.Context(), role)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
