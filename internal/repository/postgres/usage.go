package postgres

import (
	"context"
	"database/sql"
	"time"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/repository"
)

type usageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) repository.UsageRepository {
	return &usageRepository{db: db}
}

const usageColumns = `id, tool_id, operator_id, start_time, end_time, duration, is_active, created_on`

func (r *usageRepository) Create(ctx context.Context, s *domain.UsageSession) error {
	query := `INSERT INTO usage_sessions (tool_id, operator_id, start_time, end_time, duration, is_active, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, s.ToolID, s.OperatorID, s.StartTime, s.EndTime, s.DurationHours, s.IsActive, time.Now()).Scan(&s.ID)
}

func (r *usageRepository) List(ctx context.Context, limit int32) ([]domain.UsageSession, error) {
	query := `SELECT ` + usageColumns + ` FROM usage_sessions ORDER BY created_on DESC, id DESC LIMIT $1`
	return r.listSessions(ctx, query, limit)
}

func (r *usageRepository) ListByOperator(ctx context.Context, operatorID int32, limit int32) ([]domain.UsageSession, error) {
	query := `SELECT ` + usageColumns + ` FROM usage_sessions WHERE operator_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2`
	return r.listSessions(ctx, query, operatorID, limit)
}

func (r *usageRepository) Aggregate(ctx context.Context, since time.Time, operatorID, toolID int32) ([]domain.UsageBucket, error) {
	query := `SELECT to_char(created_on, 'YYYY-MM-DD') AS day, COALESCE(SUM(duration), 0), count(*)
	          FROM usage_sessions
	          WHERE created_on >= $1
	            AND ($2 = 0 OR operator_id = $2)
	            AND ($3 = 0 OR tool_id = $3)
	          GROUP BY day ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, since, operatorID, toolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []domain.UsageBucket
	for rows.Next() {
		var b domain.UsageBucket
		if err := rows.Scan(&b.Day, &b.TotalDuration, &b.UsageCount); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *usageRepository) CountByOperator(ctx context.Context, operatorID int32, since *time.Time) (int32, error) {
	var n int32
	if since != nil {
		query := `SELECT count(*) FROM usage_sessions WHERE operator_id = $1 AND created_on >= $2`
		err := r.db.QueryRowContext(ctx, query, operatorID, *since).Scan(&n)
		return n, err
	}
	query := `SELECT count(*) FROM usage_sessions WHERE operator_id = $1`
	err := r.db.QueryRowContext(ctx, query, operatorID).Scan(&n)
	return n, err
}

func (r *usageRepository) SumHoursByOperator(ctx context.Context, operatorID int32) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(duration), 0) FROM usage_sessions WHERE operator_id = $1`
	err := r.db.QueryRowContext(ctx, query, operatorID).Scan(&total)
	return total, err
}

func (r *usageRepository) listSessions(ctx context.Context, query string, args ...any) ([]domain.UsageSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UsageSession
	for rows.Next() {
		var s domain.UsageSession
		if err := rows.Scan(&s.ID, &s.ToolID, &s.OperatorID, &s.StartTime, &s.EndTime, &s.DurationHours, &s.IsActive, &s.CreatedOn); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
