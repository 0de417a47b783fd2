package controllers

import (
	"log/slog"
	"net/http"

	"eventify/internal/delivery/http/helpers"
	"eventify/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{Logger: logger, Service: svc}
}

// UserListData is the payload of a paginated user list.
type UserListData struct {
	Users      []*domain.User         `json:"users"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// UserListSuccessResponse is the success envelope for GET /users.
type UserListSuccessResponse struct {
	Data  *UserListData     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserSuccessResponse is the success envelope carrying a single user.
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List users
// @Description Returns a page of users, optionally filtered by a search term over name and email. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against name and email"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.UserListSuccessResponse "data contains users and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	users, total, err := c.Service.List(r.Context(), r.URL.Query().Get("search"), params, role)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UserListData{
		Users:      users,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetByID godoc
// @Summary Get a user
// @Description Returns one user. Visible to the user themselves and to admins.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [get]
func (c *UserController) GetByID(w http.ResponseWriter, r *http.Request) {
	requesterID, role, ok := identity(w, r)
	if !ok {
		return
	}
	userID, ok := pathValue(w, r, "userID")
	if !ok {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID, requesterID, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateProfileRequest is the request body for PUT /users/me.
type UpdateProfileRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Validate implements Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if u.FirstName == "" {
		errs = append(errs, "first_name is required")
	}
	if u.LastName == "" {
		errs = append(errs, "last_name is required")
	}
	return errs
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [put]
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateProfile(r.Context(), userID, req.FirstName, req.LastName, req.AvatarURL)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// SetRoleRequest is the request body for PATCH /users/{userID}/role.
type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

// Validate implements Validator.
func (s SetRoleRequest) Validate() []string {
	if s.Role == "" {
		return []string{"role is required"}
	}
	return nil
}

// SetRole godoc
// @Summary Change a user's role
// @Description Assigns one of Admin, Organizer, or User. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body SetRoleRequest true "New role"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/role [patch]
func (c *UserController) SetRole(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	userID, ok := pathValue(w, r, "userID")
	if !ok {
		return
	}
	var req SetRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SetRole(r.Context(), userID, req.Role, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// SetActiveRequest is the request body for PATCH /users/{userID}/active.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// Validate implements Validator.
func (s SetActiveRequest) Validate() []string {
	if s.IsActive == nil {
		return []string{"is_active is required"}
	}
	return nil
}

// SetActive godoc
// @Summary Activate or deactivate a user
// @Description Deactivated users keep their data but cannot log in. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body SetActiveRequest true "Active flag"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/active [patch]
func (c *UserController) SetActive(w http.ResponseWriter, r *http.Request) {
	_, role, ok := identity(w, r)
	if !ok {
		return
	}
	userID, ok := pathValue(w, r, "userID")
	if !ok {
		return
	}
	var req SetActiveRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SetActive(r.Context(), userID, *req.IsActive, role)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
