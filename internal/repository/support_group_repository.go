package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-admin/internal/domain"
)

// SupportGroupRepository persists support groups.
type SupportGroupRepository interface {
	Create(ctx context.Context, group *domain.SupportGroup) error
}

type supportGroupRepository struct {
	pool *pgxpool.Pool
}

// NewSupportGroupRepository constructs repository.
func NewSupportGroupRepository(pool *pgxpool.Pool) SupportGroupRepository {
	return &supportGroupRepository{pool: pool}
}

func (r *supportGroupRepository) Create(ctx context.Context, group *domain.SupportGroup) error {
	const query = `
        INSERT INTO support_groups (name, description, capacity, next_meeting, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		group.Name,
		group.Description,
		group.Capacity,
		group.NextMeeting,
		group.CreatedBy,
	).Scan(&group.ID, &group.CreatedAt)
}
