package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"eventhub/internal/domain"
)

const maxTitleLen = 200

// CatalogService manages categories and their events.
type CatalogService struct {
	categories domain.CategoryRepository
	events     domain.EventRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewCatalogService creates a CatalogService with the given repositories.
func NewCatalogService(categories domain.CategoryRepository, events domain.EventRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		categories: categories,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name, err := validTitle("category name", name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	category := domain.NewCategory(name, strings.TrimSpace(description), now, now)
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.CategoryWithEvents, error) {
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByCategoryID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list category events: %w", err)
	}
	return &domain.CategoryWithEvents{Category: category, Events: events}, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, name, description *string) (*domain.Category, error) {
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if category.Name, err = validTitle("category name", *name); err != nil {
			return nil, err
		}
	}
	if description != nil {
		category.Description = strings.TrimSpace(*description)
	}
	category.UpdatedAt = s.now()
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes the category together with its events and their RSVPs.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	s.logger.InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}

func (s *CatalogService) CreateEvent(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	if input.Name == nil || input.Date == nil || input.Time == nil || input.CategoryID == nil {
		return nil, fmt.Errorf("%w: name, date, time and category_id are required", domain.ErrInvalidInput)
	}
	input, err := s.normalizeEventInput(ctx, input)
	if err != nil {
		return nil, err
	}
	now := s.now()
	event := &domain.Event{
		Name:       *input.Name,
		Date:       *input.Date,
		Time:       *input.Time,
		CategoryID: *input.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.ImageURL != nil {
		event.ImageURL = *input.ImageURL
	}
	if err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.GetEvent(ctx, event.ID)
}

func (s *CatalogService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *CatalogService) UpdateEvent(ctx context.Context, id string, input domain.EventInput) (*domain.Event, error) {
	input, err := s.normalizeEventInput(ctx, input)
	if err != nil {
		return nil, err
	}
	event, err := s.events.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *CatalogService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("event: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}

func (s *CatalogService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	switch filter.Scope {
	case "":
		filter.Scope = domain.ScopeAll
	case domain.ScopeAll, domain.ScopeToday, domain.ScopeUpcoming, domain.ScopePast:
	default:
		return nil, 0, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInput, filter.Scope)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, 0, fmt.Errorf("%w: end_date is before start_date", domain.ErrInvalidInput)
	}
	if filter.Today.IsZero() {
		filter.Today = dateOf(s.now())
	}
	events, total, err := s.events.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *CatalogService) getCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// normalizeEventInput trims and validates the set fields and checks the category exists.
func (s *CatalogService) normalizeEventInput(ctx context.Context, in domain.EventInput) (domain.EventInput, error) {
	if in.Name != nil {
		name, err := validTitle("event name", *in.Name)
		if err != nil {
			return in, err
		}
		in.Name = &name
	}
	if in.Time != nil {
		t, err := normalizeClock(*in.Time)
		if err != nil {
			return in, err
		}
		in.Time = &t
	}
	if in.Date != nil {
		d := dateOf(*in.Date)
		in.Date = &d
	}
	in.Description = trimmed(in.Description)
	in.Location = trimmed(in.Location)
	in.ImageURL = trimmed(in.ImageURL)
	if in.CategoryID != nil {
		if _, err := s.getCategory(ctx, *in.CategoryID); err != nil {
			return in, err
		}
	}
	return in, nil
}

func validTitle(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	if utf8.RuneCountInString(v) > maxTitleLen {
		return "", fmt.Errorf("%w: %s must be at most %d characters", domain.ErrInvalidInput, field, maxTitleLen)
	}
	return v, nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// normalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeClock(v string) (string, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("%w: time must be HH:MM or HH:MM:SS", domain.ErrInvalidInput)
}

// dateOf returns the calendar day of t as UTC midnight.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ domain.CatalogService = (*CatalogService)(nil)
