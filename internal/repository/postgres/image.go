package postgres

import (
	"context"

	"image-service/internal/domain/image"
	"image-service/internal/repository"
	apperrors "image-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ repository.ImageRepository = (*ImageRepository)(nil)

type ImageRepository struct {
	db *DB
}

func NewImageRepository(db *DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, input image.CreateImageInput) (*image.Image, error) {
	query := `
		INSERT INTO images (uuid, account_id, storage_key, file_name, alt)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uuid, account_id, storage_key, file_name, alt, created_at, updated_at
	`

	img := &image.Image{}
	err := r.db.Pool.QueryRow(ctx, query,
		input.UUID,
		input.AccountID,
		input.StorageKey,
		input.FileName,
		input.Alt,
	).Scan(
		&img.ID,
		&img.UUID,
		&img.AccountID,
		&img.StorageKey,
		&img.FileName,
		&img.Alt,
		&img.CreatedAt,
		&img.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("image with this uuid already exists")
		}
		return nil, errFailedCreateImage(err)
	}

	return img, nil
}

// GetByUUID looks an image up by its public identifier. The internal numeric
// id never appears in URLs.
func (r *ImageRepository) GetByUUID(ctx context.Context, imageUUID uuid.UUID) (*image.Image, error) {
	query := `
		SELECT id, uuid, account_id, storage_key, file_name, alt, created_at, updated_at
		FROM images
		WHERE uuid = $1
	`

	img := &image.Image{}
	err := r.db.Pool.QueryRow(ctx, query, imageUUID).Scan(
		&img.ID,
		&img.UUID,
		&img.AccountID,
		&img.StorageKey,
		&img.FileName,
		&img.Alt,
		&img.CreatedAt,
		&img.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errImageNotFound)
		}
		return nil, errFailedGetImage(err)
	}

	return img, nil
}

func (r *ImageRepository) List(ctx context.Context, filter image.ListImagesFilter) ([]*image.Image, error) {
	query := `
		SELECT id, uuid, account_id, storage_key, file_name, alt, created_at, updated_at
		FROM images
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, filter.AccountID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, errFailedListImages(err)
	}
	defer rows.Close()

	images := make([]*image.Image, 0)
	for rows.Next() {
		img := &image.Image{}
		if err := rows.Scan(
			&img.ID,
			&img.UUID,
			&img.AccountID,
			&img.StorageKey,
			&img.FileName,
			&img.Alt,
			&img.CreatedAt,
			&img.UpdatedAt,
		); err != nil {
			return nil, errFailedScanImage(err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, errIterateImages(err)
	}

	return images, nil
}

// Update replaces metadata only. The original bytes are immutable once
// stored; uploads never rewrite an existing storage key.
func (r *ImageRepository) Update(ctx context.Context, imageUUID uuid.UUID, input image.UpdateImageInput) error {
	query := `
		UPDATE images
		SET alt = COALESCE($2, alt), updated_at = now()
		WHERE uuid = $1
	`

	result, err := r.db.Pool.Exec(ctx, query, imageUUID, input.Alt)
	if err != nil {
		return errFailedUpdateImage(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errImageNotFound)
	}

	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, imageUUID uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, "DELETE FROM images WHERE uuid = $1", imageUUID)
	if err != nil {
		return errFailedDeleteImage(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errImageNotFound)
	}

	return nil
}
