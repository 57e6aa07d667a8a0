package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventhub/internal/domain"
)

type rsvpRepository struct {
	DB DBTX
}

func NewRSVPRepository(db DBTX) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

// Create treats the (account_id, event_id) unique constraint as the authoritative
// duplicate signal.
func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (account_id, event_id, responded_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, rsvp.AccountID, rsvp.EventID, rsvp.RespondedAt).Scan(&rsvp.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicateRSVP
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *rsvpRepository) GetByAccountAndEvent(ctx context.Context, accountID, eventID string) (*domain.RSVP, error) {
	query := `
		SELECT id, account_id, event_id, responded_at
		FROM rsvps
		WHERE account_id = $1 AND event_id = $2
	`
	rsvp := &domain.RSVP{}
	err := r.DB.QueryRowContext(ctx, query, accountID, eventID).
		Scan(&rsvp.ID, &rsvp.AccountID, &rsvp.EventID, &rsvp.RespondedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) Delete(ctx context.Context, accountID, eventID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM rsvps WHERE account_id = $1 AND event_id = $2`, accountID, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rsvpRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rsvps WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

func (r *rsvpRepository) ListByAccountID(ctx context.Context, accountID string) ([]*domain.RSVPWithEvent, error) {
	query := `
		SELECT rs.id, rs.account_id, rs.event_id, rs.responded_at,
			e.id, e.name, e.description, e.date, to_char(e.time, 'HH24:MI:SS'), e.location,
			e.category_id, c.name, e.image_url,
			(SELECT COUNT(*) FROM rsvps r WHERE r.event_id = e.id),
			e.created_at, e.updated_at
		FROM rsvps rs
		INNER JOIN events e ON e.id = rs.event_id
		INNER JOIN categories c ON c.id = e.category_id
		WHERE rs.account_id = $1
		ORDER BY e.date DESC, e.time DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.RSVPWithEvent, 0)
	for rows.Next() {
		rsvp := &domain.RSVP{}
		e := &domain.Event{}
		if err := rows.Scan(&rsvp.ID, &rsvp.AccountID, &rsvp.EventID, &rsvp.RespondedAt,
			&e.ID, &e.Name, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.CategoryID, &e.CategoryName, &e.ImageURL, &e.AttendeeCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &domain.RSVPWithEvent{RSVP: rsvp, Event: e})
	}
	return items, rows.Err()
}

func (r *rsvpRepository) ListAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	query := `
		SELECT a.id, a.username, a.email, a.first_name, a.last_name, a.password_hash, a.salt,
			a.is_active, a.is_superuser, a.created_at, a.updated_at, rs.responded_at
		FROM rsvps rs
		INNER JOIN accounts a ON a.id = rs.account_id
		WHERE rs.event_id = $1
		ORDER BY rs.responded_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Account{}
		at := &domain.Attendee{Account: a}
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash, &a.Salt,
			&a.IsActive, &a.IsSuperuser, &a.CreatedAt, &a.UpdatedAt, &at.RespondedAt); err != nil {
			return nil, err
		}
		attendees = append(attendees, at)
	}
	return attendees, rows.Err()
}

func (r *rsvpRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rsvps`).Scan(&n)
	return n, err
}
