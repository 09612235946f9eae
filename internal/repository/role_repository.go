package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uofr/urcourses-teststudent/internal/domain"
)

// RoleAssignmentRepository reads directory role assignments.
type RoleAssignmentRepository interface {
	HasAnyRole(ctx context.Context, accountID int64, roles []domain.RoleShortname) (bool, error)
}

type roleAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewRoleAssignmentRepository returns a Postgres-backed implementation.
func NewRoleAssignmentRepository(pool *pgxpool.Pool) RoleAssignmentRepository {
	return &roleAssignmentRepository{pool: pool}
}

func (r *roleAssignmentRepository) HasAnyRole(ctx context.Context, accountID int64, roles []domain.RoleShortname) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM role_assignments
            WHERE account_id=$1 AND role_shortname = ANY($2)
        )`

	shortnames := make([]string, 0, len(roles))
	for _, role := range roles {
		shortnames = append(shortnames, string(role))
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, accountID, shortnames).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
