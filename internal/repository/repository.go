package repository

import (
	"context"

	"image-service/internal/domain/account"
	"image-service/internal/domain/image"
	"image-service/internal/domain/plan"

	"github.com/google/uuid"
)

// PlanRepository defines plan data access operations
type PlanRepository interface {
	Create(ctx context.Context, input plan.CreatePlanInput) (*plan.Plan, error)
	GetByID(ctx context.Context, id int64) (*plan.Plan, error)
	GetDefault(ctx context.Context) (*plan.Plan, error)
	List(ctx context.Context) ([]*plan.Plan, error)
	Delete(ctx context.Context, id int64) error
}

// AccountRepository defines account data access operations
type AccountRepository interface {
	Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByUsername(ctx context.Context, username string) (*account.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRepository defines image data access operations
type ImageRepository interface {
	Create(ctx context.Context, input image.CreateImageInput) (*image.Image, error)
	GetByUUID(ctx context.Context, imageUUID uuid.UUID) (*image.Image, error)
	List(ctx context.Context, filter image.ListImagesFilter) ([]*image.Image, error)
	Update(ctx context.Context, imageUUID uuid.UUID, input image.UpdateImageInput) error
	Delete(ctx context.Context, imageUUID uuid.UUID) error
}
