package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	accountUUID  = "6f1c1f7e-6f6a-4c39-9d8f-0d7f4c1b2a01"
	eventUUID    = "0b2d8f5a-1c3e-4a7b-8e9f-2a3b4c5d6e7f"
	categoryUUID = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
)

// newRequest builds a request with an optional JSON body, path values and authenticated account.
func newRequest(method, target, body, accountID string, pathValues map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if accountID != "" {
		req = req.WithContext(middleware.SetAccountID(req.Context(), accountID))
	}
	return req
}

// decodeEnvelope decodes the response envelope, unmarshaling data into dataOut when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dataOut any) *helpers.APIError {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if dataOut != nil && envelope.Error == nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dataOut))
	}
	return envelope.Error
}

// fakeAccountService implements domain.AccountService for handler tests.
type fakeAccountService struct {
	account    *domain.Account
	accounts   []*domain.Account
	total      int
	token      string
	err        error
	updateErr  error
	lastParams domain.CreateAccountParams
	lastIdent  string
	lastToken  string
	lastPage   domain.PaginationParams
	updated    *domain.Account
}

func (f *fakeAccountService) SignUp(_ context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	f.lastParams = params
	return f.account, f.err
}

func (f *fakeAccountService) CreateByAdmin(_ context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	f.lastParams = params
	return f.account, f.err
}

func (f *fakeAccountService) Activate(_ context.Context, token string) (*domain.Account, error) {
	f.lastToken = token
	return f.account, f.err
}

func (f *fakeAccountService) Login(_ context.Context, identifier, _ string) (string, *domain.Account, error) {
	f.lastIdent = identifier
	return f.token, f.account, f.err
}

func (f *fakeAccountService) GetByID(_ context.Context, _ string) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.account
	return &copied, nil
}

func (f *fakeAccountService) List(_ context.Context, params domain.PaginationParams) ([]*domain.Account, int, error) {
	f.lastPage = params
	return f.accounts, f.total, f.err
}

func (f *fakeAccountService) UpdateProfile(_ context.Context, account *domain.Account) error {
	f.updated = account
	return f.updateErr
}

// fakeRoleService implements domain.RoleService.
type fakeRoleService struct {
	role       domain.RoleName
	err        error
	roleErr    error
	lastAssign string
	removed    string
}

func (f *fakeRoleService) AssignRole(_ context.Context, _ string, roleName string) error {
	f.lastAssign = roleName
	return f.err
}

func (f *fakeRoleService) RemoveRole(_ context.Context, accountID string) error {
	f.removed = accountID
	return f.err
}

func (f *fakeRoleService) EffectiveRole(_ context.Context, _ string) (domain.RoleName, error) {
	return f.role, f.roleErr
}

func (f *fakeRoleService) CountByRole(_ context.Context) (map[domain.RoleName]int, error) {
	return map[domain.RoleName]int{}, f.err
}

// fakeRSVPService implements domain.RSVPService.
type fakeRSVPService struct {
	rsvp          *domain.RSVP
	created       []*domain.RSVP
	mine          []*domain.RSVPWithEvent
	attendees     []*domain.Attendee
	count         int
	err           error
	lastAccountID string
	lastEventID   string
	lastAdded     []string
}

func (f *fakeRSVPService) CreateRSVP(_ context.Context, accountID, eventID string) (*domain.RSVP, error) {
	f.lastAccountID, f.lastEventID = accountID, eventID
	return f.rsvp, f.err
}

func (f *fakeRSVPService) AddAttendees(_ context.Context, eventID string, accountIDs ...string) ([]*domain.RSVP, error) {
	f.lastEventID, f.lastAdded = eventID, accountIDs
	return f.created, f.err
}

func (f *fakeRSVPService) CancelRSVP(_ context.Context, accountID, eventID string) error {
	f.lastAccountID, f.lastEventID = accountID, eventID
	return f.err
}

func (f *fakeRSVPService) AttendeeCount(_ context.Context, _ string) (int, error) {
	return f.count, f.err
}

func (f *fakeRSVPService) ListMyRSVPs(_ context.Context, accountID string) ([]*domain.RSVPWithEvent, error) {
	f.lastAccountID = accountID
	return f.mine, f.err
}

func (f *fakeRSVPService) ListAttendees(_ context.Context, eventID string) ([]*domain.Attendee, error) {
	f.lastEventID = eventID
	return f.attendees, f.err
}

// fakeProfileService implements domain.ProfileService.
type fakeProfileService struct {
	profile *domain.LegacyProfile
	err     error
}

func (f *fakeProfileService) GetByAccount(_ context.Context, _ string) (*domain.LegacyProfile, error) {
	return f.profile, f.err
}

// fakeStatsService implements domain.StatsService.
type fakeStatsService struct {
	stats *domain.Statistics
	err   error
}

func (f *fakeStatsService) Statistics(_ context.Context) (*domain.Statistics, error) {
	return f.stats, f.err
}

// fakeCatalogService implements domain.CatalogService.
type fakeCatalogService struct {
	category       *domain.Category
	categoryEvents *domain.CategoryWithEvents
	categories     []*domain.Category
	event          *domain.Event
	events         []*domain.Event
	total          int
	err            error
	lastID         string
	lastName       string
	lastNamePtr    *string
	lastInput      domain.EventInput
	lastFilter     domain.EventFilter
	lastPage       domain.PaginationParams
}

func (f *fakeCatalogService) CreateCategory(_ context.Context, name, _ string) (*domain.Category, error) {
	f.lastName = name
	return f.category, f.err
}

func (f *fakeCatalogService) GetCategory(_ context.Context, id string) (*domain.CategoryWithEvents, error) {
	f.lastID = id
	return f.categoryEvents, f.err
}

func (f *fakeCatalogService) ListCategories(_ context.Context) ([]*domain.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalogService) UpdateCategory(_ context.Context, id string, name, _ *string) (*domain.Category, error) {
	f.lastID, f.lastNamePtr = id, name
	return f.category, f.err
}

func (f *fakeCatalogService) DeleteCategory(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeCatalogService) CreateEvent(_ context.Context, input domain.EventInput) (*domain.Event, error) {
	f.lastInput = input
	return f.event, f.err
}

func (f *fakeCatalogService) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeCatalogService) UpdateEvent(_ context.Context, id string, input domain.EventInput) (*domain.Event, error) {
	f.lastID, f.lastInput = id, input
	return f.event, f.err
}

func (f *fakeCatalogService) DeleteEvent(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeCatalogService) ListEvents(_ context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastFilter, f.lastPage = filter, params
	return f.events, f.total, f.err
}
