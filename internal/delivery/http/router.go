package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Admin    *controllers.AdminController
	Category *controllers.CategoryController
	Event    *controllers.EventController
	RSVP     *controllers.RSVPController
}

// NewRouter initializes the HTTP router with all application routes.
// Role checks resolve the caller's effective role from the store on every request.
func NewRouter(c Controllers, verifier domain.TokenVerifier, roles middleware.RoleResolver, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier, logger)
	role := func(allowed ...domain.RoleName) func(http.HandlerFunc) http.HandlerFunc {
		guard := middleware.RequireRole(roles, logger, allowed...)
		return func(next http.HandlerFunc) http.HandlerFunc {
			return authed(guard(next))
		}
	}
	staff := role(domain.RoleAdmin, domain.RoleOrganizer)
	admin := role(domain.RoleAdmin)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /auth/activate", c.Auth.Activate)

	// Current account
	mux.HandleFunc("GET /users/me", authed(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", authed(c.User.UpdateMe))
	mux.HandleFunc("GET /users/me/rsvps", authed(c.User.ListMyRSVPs))
	mux.HandleFunc("GET /users/me/profile", authed(c.User.GetMyProfile))

	// Catalog
	mux.HandleFunc("GET /categories", c.Category.ListCategories)
	mux.HandleFunc("GET /categories/{categoryID}", c.Category.GetCategory)
	mux.HandleFunc("POST /categories", staff(c.Category.CreateCategory))
	mux.HandleFunc("PATCH /categories/{categoryID}", staff(c.Category.UpdateCategory))
	mux.HandleFunc("DELETE /categories/{categoryID}", staff(c.Category.DeleteCategory))

	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("POST /events", staff(c.Event.CreateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", staff(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", staff(c.Event.DeleteEvent))

	// Attendance
	mux.HandleFunc("POST /events/{eventID}/rsvp", authed(c.RSVP.CreateRSVP))
	mux.HandleFunc("DELETE /events/{eventID}/rsvp", authed(c.RSVP.CancelRSVP))
	mux.HandleFunc("GET /events/{eventID}/attendees", staff(c.RSVP.ListAttendees))
	mux.HandleFunc("POST /events/{eventID}/attendees", staff(c.RSVP.AddAttendees))

	// Admin
	mux.HandleFunc("GET /admin/accounts", admin(c.Admin.ListAccounts))
	mux.HandleFunc("POST /admin/accounts", admin(c.Admin.CreateAccount))
	mux.HandleFunc("PUT /admin/accounts/{accountID}/role", admin(c.Admin.AssignRole))
	mux.HandleFunc("DELETE /admin/accounts/{accountID}/role", admin(c.Admin.RemoveRole))
	mux.HandleFunc("GET /admin/stats", admin(c.Admin.GetStats))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
