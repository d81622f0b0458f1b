package postgres

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type clubRepository struct {
	db DBTX
}

func NewClubRepository(db DBTX) repository.ClubRepository {
	return &clubRepository{db: db}
}

const clubColumns = `id, name, description, category, logo, leader_id, status, created_at, updated_at`

func scanClub(row interface{ Scan(...any) error }) (*domain.Club, error) {
	c := &domain.Club{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.Logo, &c.LeaderID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	query := `INSERT INTO clubs (` + clubColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt

	logger.DatabaseCall("INSERT", "clubs", "clubID", c.ID, "leaderID", c.LeaderID)
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.Category, c.Logo, c.LeaderID, c.Status, c.CreatedAt, c.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "clubID", c.ID)
	return mapError(err, domain.ErrClubNotFound, domain.ErrAlreadyExists)
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	c, err := scanClub(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrClubNotFound, domain.ErrAlreadyExists)
	}
	return c, nil
}

// Update writes the editable fields. Status only changes through UpdateStatus.
func (r *clubRepository) Update(ctx context.Context, c *domain.Club) error {
	query := `UPDATE clubs SET name = $1, description = $2, category = $3, logo = $4, leader_id = $5, updated_at = $6 WHERE id = $7`
	c.UpdatedAt = time.Now().UTC()

	logger.DatabaseCall("UPDATE", "clubs", "clubID", c.ID)
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.Category, c.Logo, c.LeaderID, c.UpdatedAt, c.ID)
	logger.DatabaseResult("UPDATE", 1, err, "clubID", c.ID)
	if err != nil {
		return mapError(err, domain.ErrClubNotFound, domain.ErrAlreadyExists)
	}
	return requireOneRow(res, domain.ErrClubNotFound)
}

func (r *clubRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	query := `UPDATE clubs SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	logger.DatabaseCall("UPDATE", "clubs", "clubID", id, "from", from, "to", to)
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	logger.DatabaseResult("UPDATE", 1, err, "clubID", id)
	if err != nil {
		return mapError(err, domain.ErrClubNotFound, domain.ErrAlreadyExists)
	}
	return requireOneRow(res, fmt.Errorf("club %s is no longer %s: %w", id, from, domain.ErrInvalidTransition))
}

func (r *clubRepository) List(ctx context.Context) ([]domain.Club, error) {
	return r.query(ctx, `SELECT `+clubColumns+` FROM clubs ORDER BY created_at, id`)
}

func (r *clubRepository) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Club, error) {
	return r.query(ctx, `SELECT `+clubColumns+` FROM clubs WHERE status = $1 ORDER BY created_at, id`, status)
}

func (r *clubRepository) ListByLeader(ctx context.Context, leaderID string) ([]domain.Club, error) {
	return r.query(ctx, `SELECT `+clubColumns+` FROM clubs WHERE leader_id = $1 ORDER BY created_at, id`, leaderID)
}

func (r *clubRepository) query(ctx context.Context, query string, args ...any) ([]domain.Club, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []domain.Club
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, *c)
	}
	return clubs, rows.Err()
}
