package controllers

import (
	"log/slog"
	"net/http"

	"eventify/internal/delivery/http/helpers"
	"eventify/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc}
}

// RegisterRequest is the request body for POST /events/{eventID}/registrations.
type RegisterRequest struct {
	Notes *string `json:"notes"`
}

// Validate implements Validator.
func (r RegisterRequest) Validate() []string {
	if r.Notes != nil && len(*r.Notes) > 500 {
		return []string{"notes must be at most 500 characters"}
	}
	return nil
}

// RegistrationDetailSuccessResponse is the success envelope carrying a registration with context.
type RegistrationDetailSuccessResponse struct {
	Data  *domain.RegistrationDetail `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Register godoc
// @Summary Register for an event
// @Description Claims one seat on a published event. Of two concurrent requests for the last seat exactly one succeeds.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body RegisterRequest false "Optional notes"
// @Success 201 {object} controllers.RegistrationDetailSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (full, already registered, not published, or ended)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := pathValue(w, r, "eventID")
	if !ok {
		return
	}
	var req RegisterRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}
	detail, err := c.Service.Register(r.Context(), eventID, userID, req.Notes)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// MyRegistrationsSuccessResponse is the success envelope for GET /registrations/my.
type MyRegistrationsSuccessResponse struct {
	Data  []*domain.RegistrationWithEvent `json:"data"`
	Error *helpers.APIError               `json:"error"`
}

// ListMy godoc
// @Summary List the current user's registrations
// @Description Returns all of the caller's registrations, each with its event. Cancelled registrations are included.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyRegistrationsSuccessResponse "data contains registrations with events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/my [get]
func (c *RegistrationController) ListMy(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(w, r)
	if !ok {
		return
	}
	regs, err := c.Service.ListMyRegistrations(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// GetByID godoc
// @Summary Get a registration
// @Description Returns one registration. Visible to its owner, the event's organizer, and admins.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Success 200 {object} controllers.RegistrationDetailSuccessResponse "data contains the registration"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [get]
func (c *RegistrationController) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	registrationID, ok := pathValue(w, r, "registrationID")
	if !ok {
		return
	}
	detail, err := c.Service.GetByID(r.Context(), registrationID, userID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Releases the seat. Only the registration's owner may cancel, and only before the event ends.
// @Tags registrations
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Success 204 "registration cancelled"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already cancelled or event ended)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [delete]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(w, r)
	if !ok {
		return
	}
	registrationID, ok := pathValue(w, r, "registrationID")
	if !ok {
		return
	}
	if err := c.Service.CancelRegistration(r.Context(), registrationID, userID); err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateRegistrationStatusRequest is the request body for PATCH /registrations/{registrationID}/status.
type UpdateRegistrationStatusRequest struct {
	Status domain.RegistrationStatus `json:"status"`
}

// Validate implements Validator.
func (u UpdateRegistrationStatusRequest) Validate() []string {
	if u.Status == "" {
		return []string{"status is required"}
	}
	return nil
}

// UpdateStatus godoc
// @Summary Override a registration's status
// @Description Sets the status directly. Restricted to the event's organizer and admins. Moving out of
// @Description Cancelled reclaims a seat and fails with a conflict if the event has refilled.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Param body body UpdateRegistrationStatusRequest true "New status"
// @Success 200 {object} controllers.RegistrationDetailSuccessResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event is full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/status [patch]
func (c *RegistrationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	registrationID, ok := pathValue(w, r, "registrationID")
	if !ok {
		return
	}
	var req UpdateRegistrationStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	detail, err := c.Service.UpdateStatus(r.Context(), registrationID, req.Status, userID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// EventRegistrationsSuccessResponse is the success envelope for GET /events/{eventID}/registrations.
type EventRegistrationsSuccessResponse struct {
	Data  []*domain.RegistrationDetail `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListForEvent godoc
// @Summary List an event's registrations
// @Description Returns all registrations for the event with attendee summaries. Restricted to the organizer and admins.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventRegistrationsSuccessResponse "data contains registrations with attendees"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := identity(w, r)
	if !ok {
		return
	}
	eventID, ok := pathValue(w, r, "eventID")
	if !ok {
		return
	}
	regs, err := c.Service.ListEventRegistrations(r.Context(), eventID, userID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
