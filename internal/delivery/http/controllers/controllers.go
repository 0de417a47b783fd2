package controllers

import (
	"net/http"
	"regexp"

	"eventify/internal/delivery/http/helpers"
	"eventify/internal/delivery/http/middleware"
	"eventify/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// identity reads the authenticated user ID and role from the request context.
// It writes a 401 and returns false when either is missing.
func identity(w http.ResponseWriter, r *http.Request) (string, domain.Role, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	return userID, role, true
}

// pathValue reads a path parameter and writes a 400 when it is empty.
func pathValue(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	return v, true
}
