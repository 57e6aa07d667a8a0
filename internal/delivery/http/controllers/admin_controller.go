package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// CreateAccountRequest is the request body for POST /admin/accounts.
type CreateAccountRequest struct {
	SignUpRequest
	IsSuperuser bool `json:"is_superuser"`
}

// AssignRoleRequest is the request body for PUT /admin/accounts/{accountID}/role.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// Validate implements Validator. The role name itself is checked by the role service.
func (a AssignRoleRequest) Validate() []string {
	if strings.TrimSpace(a.Role) == "" {
		return []string{"role is required"}
	}
	return nil
}

// RoleResponse is the response body for role endpoints.
type RoleResponse struct {
	AccountID string          `json:"account_id"`
	Role      domain.RoleName `json:"role"`
}

// RoleSuccessResponse is the success response envelope for role endpoints (200).
type RoleSuccessResponse struct {
	Data  RoleResponse      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListAccountsResponse is the response body for GET /admin/accounts.
type ListAccountsResponse = helpers.Page[*domain.Account]

// ListAccountsSuccessResponse is the success response envelope for GET /admin/accounts (200).
type ListAccountsSuccessResponse struct {
	Data  ListAccountsResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// StatsSuccessResponse is the success response envelope for GET /admin/stats (200).
type StatsSuccessResponse struct {
	Data  *domain.Statistics `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// AdminController serves account administration and dashboard statistics.
type AdminController struct {
	Logger   *slog.Logger
	Accounts domain.AccountService
	Roles    domain.RoleService
	Stats    domain.StatsService
}

// NewAdminController creates an AdminController.
func NewAdminController(logger *slog.Logger, accounts domain.AccountService, roles domain.RoleService, stats domain.StatsService) *AdminController {
	return &AdminController{
		Logger:   logger,
		Accounts: accounts,
		Roles:    roles,
		Stats:    stats,
	}
}

// ListAccounts godoc
// @Summary List accounts
// @Description Paginated list of accounts, newest first. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListAccountsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/accounts [get]
func (c *AdminController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	accounts, total, err := c.Accounts.List(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewPage(accounts, params, total))
}

// CreateAccount godoc
// @Summary Create an account
// @Description Creates an active account with the Participant role and a linked profile. No activation email is sent. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAccountRequest true "Account data"
// @Success 201 {object} controllers.AccountSuccessResponse "data contains the created account"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/accounts [post]
func (c *AdminController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	params := req.params()
	params.IsSuperuser = req.IsSuperuser
	account, err := c.Accounts.CreateByAdmin(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, account)
}

// AssignRole godoc
// @Summary Assign a role
// @Description Replaces the account's role with Admin, Organizer or Participant. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param accountID path string true "Account ID (UUID)"
// @Param body body AssignRoleRequest true "Role name"
// @Success 200 {object} controllers.RoleSuccessResponse "data contains the effective role"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown role)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/accounts/{accountID}/role [put]
func (c *AdminController) AssignRole(w http.ResponseWriter, r *http.Request) {
	accountID, ok := helpers.PathUUID(w, r, "accountID")
	if !ok {
		return
	}
	var req AssignRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Roles.AssignRole(r.Context(), accountID, req.Role); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeRole(w, r, accountID)
}

// RemoveRole godoc
// @Summary Remove the role
// @Description Clears the account's role memberships. The effective role becomes User unless the account is a superuser. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param accountID path string true "Account ID (UUID)"
// @Success 200 {object} controllers.RoleSuccessResponse "data contains the effective role"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/accounts/{accountID}/role [delete]
func (c *AdminController) RemoveRole(w http.ResponseWriter, r *http.Request) {
	accountID, ok := helpers.PathUUID(w, r, "accountID")
	if !ok {
		return
	}
	if err := c.Roles.RemoveRole(r.Context(), accountID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeRole(w, r, accountID)
}

func (c *AdminController) writeRole(w http.ResponseWriter, r *http.Request, accountID string) {
	role, err := c.Roles.EffectiveRole(r.Context(), accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RoleResponse{AccountID: accountID, Role: role})
}

// GetStats godoc
// @Summary Dashboard statistics
// @Description Totals, role counts, upcoming and past event counts and the five most popular events. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StatsSuccessResponse "data contains statistics"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/stats [get]
func (c *AdminController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Stats.Statistics(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
