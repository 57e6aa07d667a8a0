package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// dateLayout is the calendar date format accepted in bodies and query strings.
const dateLayout = "2006-01-02"

// EventRequest is the request body for POST /events and PATCH /events/{eventID}.
// On create, name, date, time and category_id are required. On update, omitted fields are unchanged.
type EventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Date        *string `json:"date" example:"2026-05-14"`
	Time        *string `json:"time" example:"18:30"`
	Location    *string `json:"location"`
	CategoryID  *string `json:"category_id"`
	ImageURL    *string `json:"image_url"`
}

// Validate implements Validator. Checks formats only; required fields are enforced on create by the service.
func (e EventRequest) Validate() []string {
	var errs []string
	if e.Date != nil {
		if _, err := time.Parse(dateLayout, strings.TrimSpace(*e.Date)); err != nil {
			errs = append(errs, "date must be YYYY-MM-DD")
		}
	}
	if e.CategoryID != nil && !helpers.IsUUID(*e.CategoryID) {
		errs = append(errs, "category_id must be a UUID")
	}
	return errs
}

func (e EventRequest) input() domain.EventInput {
	in := domain.EventInput{
		Name:        e.Name,
		Description: e.Description,
		Time:        e.Time,
		Location:    e.Location,
		CategoryID:  e.CategoryID,
		ImageURL:    e.ImageURL,
	}
	if e.Date != nil {
		// Validate has already checked the format.
		d, _ := time.Parse(dateLayout, strings.TrimSpace(*e.Date))
		in.Date = &d
	}
	return in
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the response body for GET /events.
type ListEventsResponse = helpers.Page[*domain.Event]

// ListEventsSuccessResponse is the success envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewEventController(logger *slog.Logger, svc domain.CatalogService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// parseEventFilter reads the listing filters from the query string.
func parseEventFilter(r *http.Request) (domain.EventFilter, []string) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		CategoryID: strings.TrimSpace(q.Get("category_id")),
		Scope:      domain.EventScope(strings.ToLower(strings.TrimSpace(q.Get("scope")))),
	}
	var errs []string
	if filter.CategoryID != "" && !helpers.IsUUID(filter.CategoryID) {
		errs = append(errs, "category_id must be a UUID")
	}
	for _, p := range []struct {
		key  string
		dest **time.Time
	}{{"start_date", &filter.StartDate}, {"end_date", &filter.EndDate}} {
		v := strings.TrimSpace(q.Get(p.key))
		if v == "" {
			continue
		}
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			errs = append(errs, p.key+" must be YYYY-MM-DD")
			continue
		}
		*p.dest = &d
	}
	return filter, errs
}

// ListEvents godoc
// @Summary List events
// @Description Paginated event listing with live attendee counts. Scope today sorts by time, upcoming by date and time ascending, past and all newest first.
// @Tags events
// @Produce json
// @Param scope query string false "all, today, upcoming or past (default all)"
// @Param search query string false "Matches name or location"
// @Param category_id query string false "Category ID (UUID)"
// @Param start_date query string false "Earliest date (YYYY-MM-DD)"
// @Param end_date query string false "Latest date (YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseEventFilter(r)
	if len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewPage(events, params, total))
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the event with its category name and attendee count.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Organizer or Admin only. name, date, time and category_id are required.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (category)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Organizer or Admin only. Omitted fields are unchanged.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body EventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its RSVPs. Organizer or Admin only.
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
