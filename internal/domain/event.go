package domain

import (
	"context"
	"time"
)

// Category groups events. Deleting a category deletes its events.
// swagger:model Category
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory returns a new Category. ID is typically set by the repository on create.
func NewCategory(name, description string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Event is a scheduled event within a category. Date holds the calendar day (UTC midnight)
// and Time the wall clock time as HH:MM:SS.
// swagger:model Event
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Location      string    `json:"location"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	AttendeeCount int       `json:"attendee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventScope selects a time window for event listings.
type EventScope string

const (
	ScopeAll      EventScope = "all"
	ScopeToday    EventScope = "today"
	ScopeUpcoming EventScope = "upcoming"
	ScopePast     EventScope = "past"
)

// EventFilter narrows event listings. Today is the reference day for scopes.
// Listings are ordered by (date desc, time desc) except ScopeUpcoming and ScopeToday,
// which are ascending.
type EventFilter struct {
	Search     string
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
	Scope      EventScope
	Today      time.Time
}

// EventInput holds the writable fields of an event. Nil fields are left unchanged on update.
type EventInput struct {
	Name        *string
	Description *string
	Date        *time.Time
	Time        *string
	Location    *string
	CategoryID  *string
	ImageURL    *string
}

// CategoryRepository defines storage for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	// Delete removes the category; its events and their RSVPs go with it.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// EventRepository defines storage for events. Read methods fill AttendeeCount from the
// RSVP ledger at query time.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, input EventInput) (*Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListByCategoryID(ctx context.Context, categoryID string) ([]*Event, error)
	ListPopular(ctx context.Context, limit int) ([]*Event, error)
	Count(ctx context.Context) (int, error)
	CountUpcomingAndPast(ctx context.Context, today time.Time) (upcoming, past int, err error)
}

// CategoryWithEvents bundles a category with its events.
type CategoryWithEvents struct {
	Category *Category `json:"category"`
	Events   []*Event  `json:"events"`
}

// CatalogService manages categories and events.
type CatalogService interface {
	CreateCategory(ctx context.Context, name, description string) (*Category, error)
	GetCategory(ctx context.Context, id string) (*CategoryWithEvents, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, id string, name, description *string) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CreateEvent(ctx context.Context, input EventInput) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	UpdateEvent(ctx context.Context, id string, input EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
}
