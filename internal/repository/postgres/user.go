package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, COALESCE(shop_name, ''), COALESCE(company_name, ''), COALESCE(supervisor_email, ''), is_active, created_on`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ShopName, &u.CompanyName, &u.SupervisorEmail, &u.IsActive, &u.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email, password_hash, role, shop_name, company_name, supervisor_email, is_active, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role, u.ShopName, u.CompanyName, u.SupervisorEmail, u.IsActive, time.Now()).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) FindSupervisor(ctx context.Context, email, companyName string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND role = $2 AND company_name = $3 AND is_active`
	return scanUser(r.db.QueryRowContext(ctx, query, email, domain.RoleSupervisor, companyName))
}

func (r *userRepository) ListSupervisorsByCompany(ctx context.Context, companyName string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND company_name = $2 AND is_active ORDER BY name`
	return r.listUsers(ctx, query, domain.RoleSupervisor, companyName)
}

func (r *userRepository) ListSupervisors(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND is_active ORDER BY name`
	return r.listUsers(ctx, query, domain.RoleSupervisor)
}

func (r *userRepository) ListCompanies(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT company_name FROM users WHERE role = $1 AND is_active AND company_name <> '' ORDER BY company_name`
	rows, err := r.db.QueryContext(ctx, query, domain.RoleSupervisor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		companies = append(companies, name)
	}
	return companies, rows.Err()
}

func (r *userRepository) listUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ShopName, &u.CompanyName, &u.SupervisorEmail, &u.IsActive, &u.CreatedOn); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
