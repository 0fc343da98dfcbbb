package postgres

import (
	"context"

	"image-service/internal/domain/plan"
	"image-service/internal/repository"
	apperrors "image-service/pkg/errors"

	"github.com/jackc/pgx/v5"
)

var _ repository.PlanRepository = (*PlanRepository)(nil)

type PlanRepository struct {
	db *DB
}

func NewPlanRepository(db *DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, input plan.CreatePlanInput) (*plan.Plan, error) {
	query := `
		INSERT INTO plans (name, available_thumbnail_heights, can_access_original_image,
			can_fetch_expiring_link, expiring_link_min_seconds, expiring_link_max_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, available_thumbnail_heights, can_access_original_image,
			can_fetch_expiring_link, expiring_link_min_seconds, expiring_link_max_seconds,
			created_at, updated_at
	`

	p := &plan.Plan{}
	err := r.db.Pool.QueryRow(ctx, query,
		input.Name,
		input.AvailableThumbnailHeights,
		input.CanAccessOriginalImage,
		input.CanFetchExpiringLink,
		input.ExpiringLinkTimeRange.Lower,
		input.ExpiringLinkTimeRange.Upper,
	).Scan(
		&p.ID,
		&p.Name,
		&p.AvailableThumbnailHeights,
		&p.CanAccessOriginalImage,
		&p.CanFetchExpiringLink,
		&p.ExpiringLinkTimeRange.Lower,
		&p.ExpiringLinkTimeRange.Upper,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, errFailedCreatePlan(err)
	}

	return p, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	query := `
		SELECT id, name, available_thumbnail_heights, can_access_original_image,
			can_fetch_expiring_link, expiring_link_min_seconds, expiring_link_max_seconds,
			created_at, updated_at
		FROM plans
		WHERE id = $1
	`

	p := &plan.Plan{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.AvailableThumbnailHeights,
		&p.CanAccessOriginalImage,
		&p.CanFetchExpiringLink,
		&p.ExpiringLinkTimeRange.Lower,
		&p.ExpiringLinkTimeRange.Upper,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errPlanNotFound)
		}
		return nil, errFailedGetPlan(err)
	}

	return p, nil
}

// GetDefault returns the fallback plan assigned to accounts whose plan was
// deleted. The row is seeded by the schema and must always exist.
func (r *PlanRepository) GetDefault(ctx context.Context) (*plan.Plan, error) {
	return r.GetByID(ctx, plan.DefaultPlanID)
}

func (r *PlanRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	query := `
		SELECT id, name, available_thumbnail_heights, can_access_original_image,
			can_fetch_expiring_link, expiring_link_min_seconds, expiring_link_max_seconds,
			created_at, updated_at
		FROM plans
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListPlans(err)
	}
	defer rows.Close()

	plans := make([]*plan.Plan, 0)
	for rows.Next() {
		p := &plan.Plan{}
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.AvailableThumbnailHeights,
			&p.CanAccessOriginalImage,
			&p.CanFetchExpiringLink,
			&p.ExpiringLinkTimeRange.Lower,
			&p.ExpiringLinkTimeRange.Upper,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, errFailedScanPlan(err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errIteratePlans(err)
	}

	return plans, nil
}

// Delete removes a plan. Accounts referencing it fall back to the default
// plan through the accounts.plan_id ON DELETE SET DEFAULT constraint. The
// default plan itself cannot be deleted.
func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	if id == plan.DefaultPlanID {
		return apperrors.Conflict("the default plan cannot be deleted")
	}

	result, err := r.db.Pool.Exec(ctx, "DELETE FROM plans WHERE id = $1", id)
	if err != nil {
		return errFailedDeletePlan(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errPlanNotFound)
	}

	return nil
}
