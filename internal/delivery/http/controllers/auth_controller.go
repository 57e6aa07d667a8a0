package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// SignUpRequest is the request body for POST /auth/signup.
type SignUpRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate implements Validator. Format rules are enforced by the account service.
func (s SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

func (s SignUpRequest) params() domain.CreateAccountParams {
	return domain.CreateAccountParams{
		Username:  s.Username,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Password:  s.Password,
	}
}

// LoginRequest is the request body for POST /auth/login. Identifier is an email or a username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Identifier) == "" {
		errs = append(errs, "identifier is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	Account   *domain.Account `json:"account"`
}

// AccountSuccessResponse is the success envelope for endpoints returning one account.
type AccountSuccessResponse struct {
	Data  *domain.Account `json:"data"`
	Error *h.APIError     `json:"error"`
}

// LoginSuccessResponse is the success envelope for POST /auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AccountService
}

func NewAuthController(logger *slog.Logger, svc domain.AccountService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Register a new account
// @Description Creates an inactive account with the Participant role and a linked profile, then emails an activation link.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Account data"
// @Success 201 {object} controllers.AccountSuccessResponse "data contains the created account"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email or username taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	account, err := c.Service.SignUp(r.Context(), req.params())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, account)
}

// Login godoc
// @Summary Log in
// @Description Authenticates by email or username and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains the token and account"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, account, err := c.Service.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", Account: account})
}

// Activate godoc
// @Summary Activate an account
// @Description Consumes a single-use activation token from the signup email.
// @Tags auth
// @Produce json
// @Param token query string true "Activation token"
// @Success 200 {object} controllers.AccountSuccessResponse "data contains the activated account"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing, unknown or expired token)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/activate [get]
func (c *AuthController) Activate(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "token is required")
		return
	}
	account, err := c.Service.Activate(r.Context(), token)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, account)
}
