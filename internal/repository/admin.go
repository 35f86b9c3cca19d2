package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

type AdminUser struct {
	ID        uuid.UUID
	Email     string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UsageStats struct {
	Users        int
	Wallets      int
	Transactions int
	Wants        int
	Goals        int
	Installments int
}

// NewAdminRepository creates the repository behind the admin endpoints.
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// ListUsers returns users with pagination.
func (r *AdminRepository) ListUsers(ctx context.Context, limit, offset int) ([]AdminUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, name, created_at, updated_at
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]AdminUser, 0)
	for rows.Next() {
		var user AdminUser
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// CountUsers returns the total number of users.
func (r *AdminRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UsageStats returns row counts per collection across all users.
func (r *AdminRepository) UsageStats(ctx context.Context) (UsageStats, error) {
	var stats UsageStats

	err := r.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM wallets),
		        (SELECT COUNT(*) FROM transactions),
		        (SELECT COUNT(*) FROM wants),
		        (SELECT COUNT(*) FROM goals),
		        (SELECT COUNT(*) FROM installments)`,
	).Scan(&stats.Users, &stats.Wallets, &stats.Transactions, &stats.Wants, &stats.Goals, &stats.Installments)
	if err != nil {
		return stats, err
	}

	return stats, nil
}
