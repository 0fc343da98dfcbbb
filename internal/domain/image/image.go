package image

import (
	"time"

	"github.com/google/uuid"
)

// Image is an uploaded original. ID is the internal primary key and never
// leaves the service; UUID is the identifier exposed in every URL.
type Image struct {
	ID         int64
	UUID       uuid.UUID
	AccountID  uuid.UUID
	StorageKey string
	FileName   string
	Alt        *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateImageInput struct {
	UUID       uuid.UUID
	AccountID  uuid.UUID
	StorageKey string
	FileName   string
	Alt        *string
}

type UpdateImageInput struct {
	Alt *string
}

type ListImagesFilter struct {
	AccountID uuid.UUID
	Limit     int
	Offset    int
}
