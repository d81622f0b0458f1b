package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type eventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, club_id, title, description, location, start_date, end_date, capacity, status, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var capacity sql.NullInt32
	err := row.Scan(&e.ID, &e.ClubID, &e.Title, &e.Description, &e.Location, &e.StartDate, &e.EndDate,
		&capacity, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if capacity.Valid {
		e.Capacity = &capacity.Int32
	}
	return e, nil
}

func nullCapacity(c *int32) sql.NullInt32 {
	if c == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *c, Valid: true}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (` + eventColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.UpdatedAt = e.CreatedAt

	logger.DatabaseCall("INSERT", "events", "eventID", e.ID, "clubID", e.ClubID)
	_, err := r.db.ExecContext(ctx, query, e.ID, e.ClubID, e.Title, e.Description, e.Location, e.StartDate, e.EndDate,
		nullCapacity(e.Capacity), e.Status, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "eventID", e.ID)
	return mapError(err, domain.ErrEventNotFound, domain.ErrAlreadyExists)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrEventNotFound, domain.ErrAlreadyExists)
	}
	return e, nil
}

// Update writes the editable fields. Status only changes through UpdateStatus.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `UPDATE events SET title = $1, description = $2, location = $3, start_date = $4, end_date = $5,
	          capacity = $6, updated_at = $7 WHERE id = $8`
	e.UpdatedAt = time.Now().UTC()

	logger.DatabaseCall("UPDATE", "events", "eventID", e.ID)
	res, err := r.db.ExecContext(ctx, query, e.Title, e.Description, e.Location, e.StartDate, e.EndDate,
		nullCapacity(e.Capacity), e.UpdatedAt, e.ID)
	logger.DatabaseResult("UPDATE", 1, err, "eventID", e.ID)
	if err != nil {
		return mapError(err, domain.ErrEventNotFound, domain.ErrAlreadyExists)
	}
	return requireOneRow(res, domain.ErrEventNotFound)
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	query := `UPDATE events SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	logger.DatabaseCall("UPDATE", "events", "eventID", id, "from", from, "to", to)
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	logger.DatabaseResult("UPDATE", 1, err, "eventID", id)
	if err != nil {
		return mapError(err, domain.ErrEventNotFound, domain.ErrAlreadyExists)
	}
	return requireOneRow(res, fmt.Errorf("event %s is no longer %s: %w", id, from, domain.ErrInvalidTransition))
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	return r.query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at, id`)
}

func (r *eventRepository) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Event, error) {
	return r.query(ctx, `SELECT `+eventColumns+` FROM events WHERE status = $1 ORDER BY created_at, id`, status)
}

func (r *eventRepository) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	return r.query(ctx, `SELECT `+eventColumns+` FROM events WHERE club_id = $1 ORDER BY created_at, id`, clubID)
}

func (r *eventRepository) query(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
