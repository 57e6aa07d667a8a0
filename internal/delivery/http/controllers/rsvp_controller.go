package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// maxAttendeesPerRequest bounds POST /events/{eventID}/attendees.
const maxAttendeesPerRequest = 500

// AddAttendeesRequest is the request body for POST /events/{eventID}/attendees.
type AddAttendeesRequest struct {
	AccountIDs []string `json:"account_ids"`
}

// Validate implements Validator.
func (a AddAttendeesRequest) Validate() []string {
	if len(a.AccountIDs) == 0 {
		return []string{"account_ids is required"}
	}
	if len(a.AccountIDs) > maxAttendeesPerRequest {
		return []string{"too many account_ids"}
	}
	for _, id := range a.AccountIDs {
		if !helpers.IsUUID(id) {
			return []string{"account_ids must contain UUIDs"}
		}
	}
	return nil
}

// AttendeesResponse is the response body for GET /events/{eventID}/attendees.
type AttendeesResponse struct {
	Count     int                `json:"count"`
	Attendees []*domain.Attendee `json:"attendees"`
}

// AttendeesSuccessResponse is the success envelope for GET /events/{eventID}/attendees (200).
type AttendeesSuccessResponse struct {
	Data  AttendeesResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AddAttendeesResponse is the response body for POST /events/{eventID}/attendees.
type AddAttendeesResponse struct {
	Created []*domain.RSVP `json:"created"`
	Count   int            `json:"count"`
}

// AddAttendeesSuccessResponse is the success envelope for POST /events/{eventID}/attendees (200).
type AddAttendeesSuccessResponse struct {
	Data  AddAttendeesResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RSVPSuccessResponse is the success envelope for POST /events/{eventID}/rsvp (201).
type RSVPSuccessResponse struct {
	Data  *domain.RSVP      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RSVPController serves attendance endpoints.
type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateRSVP godoc
// @Summary RSVP to an event
// @Description Records the authenticated account as attending and emails a confirmation.
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.RSVPSuccessResponse "data contains the RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already RSVP'd)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [post]
func (c *RSVPController) CreateRSVP(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.CreateRSVP(r.Context(), accountID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// CancelRSVP godoc
// @Summary Cancel an RSVP
// @Tags rsvp
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [delete]
func (c *RSVPController) CancelRSVP(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.CancelRSVP(r.Context(), accountID, eventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAttendees godoc
// @Summary List attendees
// @Description Accounts that RSVP'd to the event, in response order. Organizer or Admin only.
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AttendeesSuccessResponse "data contains count and attendees"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees [get]
func (c *RSVPController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	attendees, err := c.Service.ListAttendees(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AttendeesResponse{Count: len(attendees), Attendees: attendees})
}

// AddAttendees godoc
// @Summary Add attendees
// @Description RSVPs the given accounts to the event. Accounts already attending are skipped. Organizer or Admin only.
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AddAttendeesRequest true "Account IDs"
// @Success 200 {object} controllers.AddAttendeesSuccessResponse "data contains the created RSVPs and the attendee count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or account)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees [post]
func (c *RSVPController) AddAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req AddAttendeesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Service.AddAttendees(r.Context(), eventID, req.AccountIDs...)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	count, err := c.Service.AttendeeCount(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AddAttendeesResponse{Created: created, Count: count})
}
