package handler

import (
	"context"

	"image-service/internal/audit"
	"image-service/internal/domain/account"
	"image-service/internal/domain/image"
	"image-service/internal/domain/plan"
	"image-service/internal/thumbnail"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type AccountRepository interface {
	Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error)
	GetByUsername(ctx context.Context, username string) (*account.Account, error)
}

type TokenGenerator interface {
	Generate(accountID uuid.UUID, username string) (string, error)
}

// Interfaces shared by the image, thumbnail and link handlers
type AccountGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

type PlanGetter interface {
	GetByID(ctx context.Context, id int64) (*plan.Plan, error)
}

type ImageRepository interface {
	Create(ctx context.Context, input image.CreateImageInput) (*image.Image, error)
	GetByUUID(ctx context.Context, imageUUID uuid.UUID) (*image.Image, error)
	List(ctx context.Context, filter image.ListImagesFilter) ([]*image.Image, error)
	Update(ctx context.Context, imageUUID uuid.UUID, input image.UpdateImageInput) error
	Delete(ctx context.Context, imageUUID uuid.UUID) error
}

// BlobStore is the subset of the storage backend handlers touch directly.
type BlobStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type ThumbnailRenderer interface {
	GetOrCreate(ctx context.Context, source thumbnail.SourceFunc, ownerID, imageUUID uuid.UUID, height int32) ([]byte, error)
}

type LinkSigner interface {
	Issue(userID uuid.UUID) string
	Verify(token string, maxAgeSeconds int64) (uuid.UUID, bool)
}

type AuditLogger interface {
	LogFromContext(c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, status audit.Status, metadata map[string]any) error
	LogError(c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, err error) error
}
