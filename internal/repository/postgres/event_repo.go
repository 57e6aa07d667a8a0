package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

// eventSelect reads events with their category name and live attendee count.
const eventSelect = `
		SELECT e.id, e.name, e.description, e.date, to_char(e.time, 'HH24:MI:SS'), e.location,
			e.category_id, c.name, e.image_url,
			(SELECT COUNT(*) FROM rsvps r WHERE r.event_id = e.id),
			e.created_at, e.updated_at
		FROM events e
		INNER JOIN categories c ON c.id = e.category_id
`

type eventRepository struct {
	DB DBTX
}

func NewEventRepository(db DBTX) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.CategoryID, &e.CategoryName, &e.ImageURL, &e.AttendeeCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date, time, location, category_id, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, e.Name, e.Description, e.Date, e.Time, e.Location, e.CategoryID,
		e.ImageURL, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Date != nil {
		add("date", *in.Date)
	}
	if in.Time != nil {
		add("time", *in.Time)
	}
	if in.Location != nil {
		add("location", *in.Location)
	}
	if in.CategoryID != nil {
		add("category_id", *in.CategoryID)
	}
	if in.ImageURL != nil {
		add("image_url", *in.ImageURL)
	}
	if n == 1 {
		// Nothing to change; return the current row.
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// eventWhere builds the WHERE clause for a filter. Placeholders start at $1.
func eventWhere(f domain.EventFilter) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := next("%" + s + "%")
		conds = append(conds, fmt.Sprintf("(e.name ILIKE %s OR e.location ILIKE %s)", p, p))
	}
	if f.CategoryID != "" {
		conds = append(conds, "e.category_id = "+next(f.CategoryID))
	}
	if f.StartDate != nil {
		conds = append(conds, "e.date >= "+next(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "e.date <= "+next(*f.EndDate))
	}
	switch f.Scope {
	case domain.ScopeToday:
		conds = append(conds, "e.date = "+next(f.Today))
	case domain.ScopeUpcoming:
		conds = append(conds, "e.date >= "+next(f.Today))
	case domain.ScopePast:
		conds = append(conds, "e.date < "+next(f.Today))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func eventOrder(scope domain.EventScope) string {
	switch scope {
	case domain.ScopeToday:
		return " ORDER BY e.time ASC"
	case domain.ScopeUpcoming:
		return " ORDER BY e.date ASC, e.time ASC"
	default:
		return " ORDER BY e.date DESC, e.time DESC"
	}
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args := eventWhere(f)
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := eventSelect + where + eventOrder(f.Scope) + fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, params.PageSize, params.Offset())
	events, err := r.queryEvents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListByCategoryID(ctx context.Context, categoryID string) ([]*domain.Event, error) {
	return r.queryEvents(ctx, eventSelect+` WHERE e.category_id = $1 ORDER BY e.date DESC, e.time DESC`, categoryID)
}

func (r *eventRepository) ListPopular(ctx context.Context, limit int) ([]*domain.Event, error) {
	// Column 10 of eventSelect is the attendee count.
	return r.queryEvents(ctx, eventSelect+` ORDER BY 10 DESC, e.date DESC LIMIT $1`, limit)
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

func (r *eventRepository) CountUpcomingAndPast(ctx context.Context, today time.Time) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE date >= $1),
			COUNT(*) FILTER (WHERE date < $1)
		FROM events
	`
	var upcoming, past int
	err := r.DB.QueryRowContext(ctx, query, today).Scan(&upcoming, &past)
	return upcoming, past, err
}
