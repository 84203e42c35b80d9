package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, supervisor_id, shopkeeper_id, tool_id, quantity, COALESCE(notes, ''), status, approved_at, fulfilled_at, created_on`

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (supervisor_id, shopkeeper_id, tool_id, quantity, notes, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query, o.SupervisorID, o.ShopkeeperID, o.ToolID, o.Quantity, o.Notes, o.Status, time.Now()).Scan(&o.ID, &o.CreatedOn)
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	o := &domain.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.SupervisorID, &o.ShopkeeperID, &o.ToolID, &o.Quantity, &o.Notes, &o.Status, &o.ApprovedAt, &o.FulfilledAt, &o.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int32, from, to domain.OrderStatus, notes string, approvedAt, fulfilledAt *time.Time) error {
	// Conditional on the expected current status; a racing transition on
	// the same order leaves zero rows and surfaces a conflict.
	query := `UPDATE orders SET status = $1, notes = COALESCE(NULLIF($2, ''), notes), approved_at = COALESCE($3, approved_at), fulfilled_at = COALESCE($4, fulfilled_at)
	          WHERE id = $5 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, to, notes, approvedAt, fulfilledAt, orderID, from)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrConflict)
}

func (r *orderRepository) ListBySupervisor(ctx context.Context, supervisorID int32) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE supervisor_id = $1 ORDER BY created_on DESC, id DESC`
	return r.listOrders(ctx, query, supervisorID)
}

func (r *orderRepository) ListByShopkeeper(ctx context.Context, shopkeeperID int32) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE shopkeeper_id = $1 ORDER BY created_on DESC, id DESC`
	return r.listOrders(ctx, query, shopkeeperID)
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_on DESC, id DESC`
	return r.listOrders(ctx, query)
}

func (r *orderRepository) CountByStatus(ctx context.Context, userID int32, role domain.Role, status domain.OrderStatus) (int32, error) {
	var n int32
	query := `SELECT count(*) FROM orders WHERE ` + roleColumn(role) + ` = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, userID, status).Scan(&n)
	return n, err
}

func (r *orderRepository) CountByUser(ctx context.Context, userID int32, role domain.Role) (int32, error) {
	var n int32
	query := `SELECT count(*) FROM orders WHERE ` + roleColumn(role) + ` = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&n)
	return n, err
}

func roleColumn(role domain.Role) string {
	if role == domain.RoleShopkeeper {
		return "shopkeeper_id"
	}
	return "supervisor_id"
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.SupervisorID, &o.ShopkeeperID, &o.ToolID, &o.Quantity, &o.Notes, &o.Status, &o.ApprovedAt, &o.FulfilledAt, &o.CreatedOn); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
