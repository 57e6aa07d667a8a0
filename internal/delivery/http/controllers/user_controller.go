package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// UpdateMeRequest is the request body for PATCH /users/me. Omitted fields are unchanged.
type UpdateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Validate implements Validator.
func (u UpdateMeRequest) Validate() []string {
	if u.FirstName == nil && u.LastName == nil {
		return []string{"at least one of first_name or last_name is required"}
	}
	return nil
}

// MeResponse is the response body for GET /users/me.
type MeResponse struct {
	Account *domain.Account `json:"account"`
	Role    domain.RoleName `json:"role"`
}

// MeSuccessResponse is the success response envelope for GET /users/me (200).
type MeSuccessResponse struct {
	Data  MeResponse        `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MyRSVPsSuccessResponse is the success response envelope for GET /users/me/rsvps (200).
type MyRSVPsSuccessResponse struct {
	Data  []*domain.RSVPWithEvent `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// ProfileSuccessResponse is the success response envelope for GET /users/me/profile (200).
type ProfileSuccessResponse struct {
	Data  *domain.LegacyProfile `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// UserController serves the authenticated account's own resources.
type UserController struct {
	Logger   *slog.Logger
	Accounts domain.AccountService
	Roles    domain.RoleService
	RSVPs    domain.RSVPService
	Profiles domain.ProfileService
}

// NewUserController creates a UserController.
func NewUserController(
	logger *slog.Logger,
	accounts domain.AccountService,
	roles domain.RoleService,
	rsvps domain.RSVPService,
	profiles domain.ProfileService,
) *UserController {
	return &UserController{
		Logger:   logger,
		Accounts: accounts,
		Roles:    roles,
		RSVPs:    rsvps,
		Profiles: profiles,
	}
}

func (c *UserController) accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return id, ok
}

// GetMe godoc
// @Summary Get current account
// @Description Returns the authenticated account and its effective role.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MeSuccessResponse "data contains account and role"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := c.accountID(w, r)
	if !ok {
		return
	}
	account, err := c.Accounts.GetByID(r.Context(), accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	role, err := c.Roles.EffectiveRole(r.Context(), accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MeResponse{Account: account, Role: role})
}

// UpdateMe godoc
// @Summary Update current account
// @Description Updates the first and last name of the authenticated account.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateMeRequest true "Names to change"
// @Success 200 {object} controllers.AccountSuccessResponse "data contains the updated account"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := c.accountID(w, r)
	if !ok {
		return
	}
	var req UpdateMeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	account, err := c.Accounts.GetByID(r.Context(), accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if err := c.Accounts.UpdateProfile(r.Context(), account); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, account)
}

// ListMyRSVPs godoc
// @Summary List my RSVPs
// @Description Returns the events the authenticated account has RSVP'd to, latest first.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyRSVPsSuccessResponse "data contains RSVPs with their events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/rsvps [get]
func (c *UserController) ListMyRSVPs(w http.ResponseWriter, r *http.Request) {
	accountID, ok := c.accountID(w, r)
	if !ok {
		return
	}
	rsvps, err := c.RSVPs.ListMyRSVPs(r.Context(), accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}

// GetMyProfile godoc
// @Summary Get my legacy profile
// @Description Returns the participant profile linked to the authenticated account.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/profile [get]
func (c *UserController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := c.accountID(w, r)
	if !ok {
		return
	}
	profile, err := c.Profiles.GetByAccount(r.Context(), accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
