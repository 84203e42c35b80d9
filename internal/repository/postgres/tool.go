package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/repository"
)

type toolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) repository.ToolRepository {
	return &toolRepository{db: db}
}

const toolColumns = `id, shopkeeper_id, shop_name, name, COALESCE(description, ''), category, life_limit, remaining_life, threshold_limit, status, current_user_id, usage_start_time, total_usage_hours, stock, created_on, deleted_on`

func (r *toolRepository) Create(ctx context.Context, t *domain.Tool) error {
	query := `INSERT INTO tools (shopkeeper_id, shop_name, name, description, category, life_limit, remaining_life, threshold_limit, status, total_usage_hours, stock, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	return r.db.QueryRowContext(ctx, query, t.ShopkeeperID, t.ShopName, t.Name, t.Description, t.Category, t.LifeLimit, t.RemainingLife, t.ThresholdLimit, t.Status, t.TotalUsageHours, t.Stock, time.Now()).Scan(&t.ID)
}

func (r *toolRepository) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	t := &domain.Tool{}
	query := `SELECT ` + toolColumns + ` FROM tools WHERE id = $1 AND deleted_on IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.ShopkeeperID, &t.ShopName, &t.Name, &t.Description, &t.Category, &t.LifeLimit, &t.RemainingLife, &t.ThresholdLimit, &t.Status, &t.CurrentUserID, &t.UsageStartTime, &t.TotalUsageHours, &t.Stock, &t.CreatedOn, &t.DeletedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *toolRepository) Update(ctx context.Context, t *domain.Tool) error {
	query := `UPDATE tools SET name=$1, description=$2, category=$3, threshold_limit=$4, stock=$5 WHERE id=$6 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Description, t.Category, t.ThresholdLimit, t.Stock, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrNotFound)
}

func (r *toolRepository) Delete(ctx context.Context, id int32) error {
	query := `UPDATE tools SET deleted_on = $1 WHERE id = $2 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrNotFound)
}

func (r *toolRepository) List(ctx context.Context) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE deleted_on IS NULL ORDER BY created_on DESC, id DESC`
	return r.listTools(ctx, query)
}

func (r *toolRepository) ListByShopkeeper(ctx context.Context, shopkeeperID int32) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE shopkeeper_id = $1 AND deleted_on IS NULL ORDER BY created_on DESC, id DESC`
	return r.listTools(ctx, query, shopkeeperID)
}

func (r *toolRepository) ListByGrantedSupervisor(ctx context.Context, supervisorID int32) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools t
	          WHERE deleted_on IS NULL
	            AND EXISTS (SELECT 1 FROM tool_access_grants g WHERE g.tool_id = t.id AND g.supervisor_id = $1)
	          ORDER BY created_on DESC, id DESC`
	return r.listTools(ctx, query, supervisorID)
}

func (r *toolRepository) ListBelowThreshold(ctx context.Context) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE remaining_life <= threshold_limit AND deleted_on IS NULL ORDER BY remaining_life ASC`
	return r.listTools(ctx, query)
}

func (r *toolRepository) BeginUsage(ctx context.Context, toolID, operatorID int32, startTime time.Time) error {
	// Conditional on status so two racing operators cannot both win; the
	// loser sees zero rows and gets a conflict.
	query := `UPDATE tools SET status = $1, current_user_id = $2, usage_start_time = $3
	          WHERE id = $4 AND status = $5 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, domain.ToolStatusInUse, operatorID, startTime, toolID, domain.ToolStatusAvailable)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrConflict)
}

func (r *toolRepository) EndUsage(ctx context.Context, toolID, operatorID int32, remainingLife, totalUsageHours float64) error {
	query := `UPDATE tools SET status = $1, current_user_id = NULL, usage_start_time = NULL, remaining_life = $2, total_usage_hours = $3
	          WHERE id = $4 AND status = $5 AND current_user_id = $6`
	res, err := r.db.ExecContext(ctx, query, domain.ToolStatusAvailable, remainingLife, totalUsageHours, toolID, domain.ToolStatusInUse, operatorID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrConflict)
}

func (r *toolRepository) HasAccessGrant(ctx context.Context, toolID, supervisorID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tool_access_grants WHERE tool_id = $1 AND supervisor_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, toolID, supervisorID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *toolRepository) AddAccessGrant(ctx context.Context, g *domain.AccessGrant) error {
	// Deduplicated per (tool, supervisor); re-approving is a no-op.
	query := `INSERT INTO tool_access_grants (tool_id, supervisor_id, company_name, granted_on)
	          VALUES ($1, $2, $3, $4) ON CONFLICT (tool_id, supervisor_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, g.ToolID, g.SupervisorID, g.CompanyName, g.GrantedOn)
	return err
}

func (r *toolRepository) ListAccessGrants(ctx context.Context, toolID int32) ([]domain.AccessGrant, error) {
	query := `SELECT tool_id, supervisor_id, company_name, granted_on FROM tool_access_grants WHERE tool_id = $1 ORDER BY granted_on`
	rows, err := r.db.QueryContext(ctx, query, toolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []domain.AccessGrant
	for rows.Next() {
		var g domain.AccessGrant
		if err := rows.Scan(&g.ToolID, &g.SupervisorID, &g.CompanyName, &g.GrantedOn); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *toolRepository) IncrementStock(ctx context.Context, toolID, quantity int32) error {
	query := `UPDATE tools SET stock = stock + $1 WHERE id = $2 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, quantity, toolID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrNotFound)
}

func (r *toolRepository) CountByShopkeeper(ctx context.Context, shopkeeperID int32) (int32, error) {
	return r.count(ctx, `SELECT count(*) FROM tools WHERE shopkeeper_id = $1 AND deleted_on IS NULL`, shopkeeperID)
}

func (r *toolRepository) CountBelowThreshold(ctx context.Context, shopkeeperID int32) (int32, error) {
	if shopkeeperID == 0 {
		return r.count(ctx, `SELECT count(*) FROM tools WHERE remaining_life <= threshold_limit AND deleted_on IS NULL`)
	}
	return r.count(ctx, `SELECT count(*) FROM tools WHERE shopkeeper_id = $1 AND remaining_life <= threshold_limit AND deleted_on IS NULL`, shopkeeperID)
}

func (r *toolRepository) SumStockByShopkeeper(ctx context.Context, shopkeeperID int32) (int32, error) {
	var total int32
	query := `SELECT COALESCE(SUM(stock), 0) FROM tools WHERE shopkeeper_id = $1 AND deleted_on IS NULL`
	err := r.db.QueryRowContext(ctx, query, shopkeeperID).Scan(&total)
	return total, err
}

func (r *toolRepository) CountInUseByOperator(ctx context.Context, operatorID int32) (int32, error) {
	return r.count(ctx, `SELECT count(*) FROM tools WHERE current_user_id = $1 AND status = $2 AND deleted_on IS NULL`, operatorID, domain.ToolStatusInUse)
}

func (r *toolRepository) count(ctx context.Context, query string, args ...any) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *toolRepository) listTools(ctx context.Context, query string, args ...any) ([]domain.Tool, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		var t domain.Tool
		if err := rows.Scan(&t.ID, &t.ShopkeeperID, &t.ShopName, &t.Name, &t.Description, &t.Category, &t.LifeLimit, &t.RemainingLife, &t.ThresholdLimit, &t.Status, &t.CurrentUserID, &t.UsageStartTime, &t.TotalUsageHours, &t.Stock, &t.CreatedOn, &t.DeletedOn); err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// requireRow maps a zero-row mutation to the given sentinel.
func requireRow(res sql.Result, missing error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return missing
	}
	return nil
}
