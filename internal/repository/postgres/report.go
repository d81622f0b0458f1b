package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type reportRepository struct {
	db DBTX
}

func NewReportRepository(db DBTX) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, rep *domain.Report) error {
	data, err := json.Marshal(rep.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal report data: %w", err)
	}

	query := `INSERT INTO reports (id, club_id, type, data, generated_at, generated_by) VALUES ($1, $2, $3, $4, $5, $6)`
	logger.DatabaseCall("INSERT", "reports", "clubID", rep.ClubID, "type", rep.Type)
	_, err = r.db.ExecContext(ctx, query, rep.ID, rep.ClubID, rep.Type, data, rep.GeneratedAt, rep.GeneratedBy)
	logger.DatabaseResult("INSERT", 1, err, "reportID", rep.ID)
	return mapError(err, domain.ErrNotFound, domain.ErrAlreadyExists)
}

func (r *reportRepository) ListByClub(ctx context.Context, clubID string) ([]domain.Report, error) {
	query := `SELECT id, club_id, type, data, generated_at, generated_by FROM reports WHERE club_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var rep domain.Report
		var data []byte
		if err := rows.Scan(&rep.ID, &rep.ClubID, &rep.Type, &data, &rep.GeneratedAt, &rep.GeneratedBy); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &rep.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report data: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
