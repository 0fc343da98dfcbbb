package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"image-service/internal/storage"
	apperrors "image-service/pkg/errors"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// JPEGQuality is the fixed encode quality for every thumbnail. Tunable
	// here, never user-controlled.
	JPEGQuality = 60

	errDecodeSource         = "failed to decode source image"
	errFailedCheckCacheFmt  = "failed to check thumbnail cache: %w"
	errFailedReadCachedFmt  = "failed to read cached thumbnail: %w"
	errFailedEncodeThumbFmt = "failed to encode thumbnail: %w"
	errFailedWriteThumbFmt  = "failed to write thumbnail: %w"
	errFailedLoadSourceFmt  = "failed to load source image: %w"
)

// SourceFunc lazily loads the original image bytes. It is only invoked on a
// cache miss, so hits never touch the original.
type SourceFunc func(ctx context.Context) ([]byte, error)

// Generator derives resized JPEG thumbnails and caches them in the blob
// store at deterministic keys. Once a key is materialized it is served
// as-is forever; there is no invalidation path, so a replaced original
// leaves stale thumbnails behind (known, accepted gap).
//
// Concurrent first requests for the same key may both decode and write.
// That race is benign: output is deterministic for given inputs, so the
// last writer stores equivalent bytes. No locking.
type Generator struct {
	store storage.Store
}

func NewGenerator(store storage.Store) *Generator {
	return &Generator{store: store}
}

// Key is the deterministic cache key for a (owner, image, height) triple.
func Key(ownerID, imageUUID uuid.UUID, height int32) string {
	return fmt.Sprintf("images/%s/%s/%d-%s.jpg", ownerID, imageUUID, height, imageUUID)
}

// GetOrCreate returns the cached thumbnail for the triple, generating and
// persisting it first if absent. The source is resized proportionally so its
// height equals height (upscaling permitted) and re-encoded as JPEG.
func (g *Generator) GetOrCreate(ctx context.Context, source SourceFunc, ownerID, imageUUID uuid.UUID, height int32) ([]byte, error) {
	key := Key(ownerID, imageUUID, height)

	exists, err := g.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf(errFailedCheckCacheFmt, err)
	}
	if exists {
		data, err := g.store.Read(ctx, key)
		if err != nil {
			return nil, fmt.Errorf(errFailedReadCachedFmt, err)
		}
		return data, nil
	}

	srcBytes, err := source(ctx)
	if err != nil {
		return nil, fmt.Errorf(errFailedLoadSourceFmt, err)
	}

	src, err := imaging.Decode(bytes.NewReader(srcBytes))
	if err != nil {
		return nil, apperrors.SourceUnreadable(errDecodeSource, err)
	}

	resized := imaging.Resize(src, 0, int(height), imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf(errFailedEncodeThumbFmt, err)
	}

	if err := g.store.Write(ctx, key, buf.Bytes()); err != nil {
		return nil, fmt.Errorf(errFailedWriteThumbFmt, err)
	}

	return buf.Bytes(), nil
}
