package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventify/internal/delivery/http/controllers"
	"eventify/internal/delivery/http/middleware"
	"eventify/internal/domain"
)

// Controllers bundles the route handlers the router wires up.
type Controllers struct {
	Auth         *controllers.AuthController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	User         *controllers.UserController
	Location     *controllers.LocationController
	Category     *controllers.CategoryController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	adminOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}
	organizerOrAdmin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin, domain.RoleOrganizer)(next))
	}

	// Auth
	mux.HandleFunc("POST /api/auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /api/auth/login", c.Auth.Login)
	mux.HandleFunc("GET /api/auth/me", auth(c.Auth.Me))
	mux.HandleFunc("POST /api/auth/change-password", auth(c.Auth.ChangePassword))

	// Events. Stats and my-events are literal segments and must be registered
	// alongside the {eventID} wildcard; the mux prefers the literal match.
	mux.HandleFunc("GET /api/events", c.Event.List)
	mux.HandleFunc("POST /api/events", organizerOrAdmin(c.Event.Create))
	mux.HandleFunc("GET /api/events/stats", adminOnly(c.Event.Stats))
	mux.HandleFunc("GET /api/events/my-events", organizerOrAdmin(c.Event.ListMyEvents))
	mux.HandleFunc("GET /api/events/{eventID}", c.Event.GetByID)
	mux.HandleFunc("PATCH /api/events/{eventID}", organizerOrAdmin(c.Event.Update))
	mux.HandleFunc("DELETE /api/events/{eventID}", organizerOrAdmin(c.Event.Delete))
	mux.HandleFunc("POST /api/events/{eventID}/publish", organizerOrAdmin(c.Event.Publish))
	mux.HandleFunc("POST /api/events/{eventID}/cancel", organizerOrAdmin(c.Event.Cancel))

	// Registrations
	mux.HandleFunc("POST /api/events/{eventID}/registrations", auth(c.Registration.Register))
	mux.HandleFunc("GET /api/events/{eventID}/registrations", organizerOrAdmin(c.Registration.ListForEvent))
	mux.HandleFunc("GET /api/registrations/my", auth(c.Registration.ListMy))
	mux.HandleFunc("GET /api/registrations/{registrationID}", auth(c.Registration.GetByID))
	mux.HandleFunc("DELETE /api/registrations/{registrationID}", auth(c.Registration.Cancel))
	mux.HandleFunc("PATCH /api/registrations/{registrationID}/status", organizerOrAdmin(c.Registration.UpdateStatus))

	// Users
	mux.HandleFunc("GET /api/users", adminOnly(c.User.List))
	mux.HandleFunc("PUT /api/users/me", auth(c.User.UpdateProfile))
	mux.HandleFunc("GET /api/users/{userID}", auth(c.User.GetByID))
	mux.HandleFunc("PATCH /api/users/{userID}/role", adminOnly(c.User.SetRole))
	mux.HandleFunc("PATCH /api/users/{userID}/active", adminOnly(c.User.SetActive))

	// Locations
	mux.HandleFunc("GET /api/locations", adminOnly(c.Location.List))
	mux.HandleFunc("POST /api/locations", adminOnly(c.Location.Create))
	mux.HandleFunc("GET /api/locations/active", c.Location.ListActive)
	mux.HandleFunc("GET /api/locations/{locationID}", c.Location.GetByID)
	mux.HandleFunc("PUT /api/locations/{locationID}", adminOnly(c.Location.Update))
	mux.HandleFunc("DELETE /api/locations/{locationID}", adminOnly(c.Location.Delete))

	// Categories
	mux.HandleFunc("GET /api/categories", c.Category.List)
	mux.HandleFunc("GET /api/categories/{categoryID}", c.Category.GetByID)

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
