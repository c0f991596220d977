package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskhive/support-desk/internal/domain"
	"github.com/deskhive/support-desk/internal/pagination"
)

// UserRepository defines persistence access for accounts. It doubles
// as the pagination source for the admin user listing.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile patches only the admin-updatable fields.
	UpdateProfile(ctx context.Context, id string, userName *string, role *domain.UserRole) error
	Count(ctx context.Context, filter pagination.Filter) (int64, error)
	Fetch(ctx context.Context, filter pagination.Filter, query pagination.Query) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (user_name, email, password_hash, user_type)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	return r.pool.QueryRow(ctx, query,
		user.UserName,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, user_name, email, password_hash, user_type, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, user_name, email, password_hash, user_type, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, userName *string, role *domain.UserRole) error {
	sets := []string{"updated_at=NOW()"}
	args := []any{}
	if userName != nil {
		args = append(args, *userName)
		sets = append(sets, fmt.Sprintf("user_name=$%d", len(args)))
	}
	if role != nil {
		args = append(args, *role)
		sets = append(sets, fmt.Sprintf("user_type=$%d", len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context, filter pagination.Filter) (int64, error) {
	where, args := buildUserWhere(filter)
	var total int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+where, args...).Scan(&total)
	return total, err
}

func (r *userRepository) Fetch(ctx context.Context, filter pagination.Filter, query pagination.Query) ([]domain.User, error) {
	where, args := buildUserWhere(filter)

	// The password column is projected out when omitted.
	passwordColumn := "password_hash"
	for _, field := range query.Omit {
		if field == "password" {
			passwordColumn = "''"
		}
	}

	sql := fmt.Sprintf(`
        SELECT id, user_name, email, %s, user_type, created_at, updated_at
        FROM users WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		passwordColumn, where, userOrderBy(query.Sort), query.Limit, query.Offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.UserName,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func buildUserWhere(filter pagination.Filter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	for key, val := range filter {
		switch key {
		case "userType":
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf("user_type=$%d", len(args)))
		case "email":
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf("email=$%d", len(args)))
		}
	}
	return strings.Join(clauses, " AND "), args
}

func userOrderBy(sorts []pagination.Sort) string {
	for _, sort := range sorts {
		if sort.Field == "createdAt" {
			if sort.Desc {
				return "created_at DESC"
			}
			return "created_at ASC"
		}
	}
	return "created_at DESC"
}
