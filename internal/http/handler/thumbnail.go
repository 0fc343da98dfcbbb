package handler

import (
	"context"
	"net/http"
	"strconv"

	"image-service/internal/audit"
	"image-service/internal/policy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ThumbnailHandler struct {
	images      ImageRepository
	accounts    AccountGetter
	plans       PlanGetter
	blobs       BlobStore
	renderer    ThumbnailRenderer
	policy      policy.Evaluator
	auditLogger AuditLogger
}

func NewThumbnailHandler(images ImageRepository, accounts AccountGetter, plans PlanGetter, blobs BlobStore, renderer ThumbnailRenderer, evaluator policy.Evaluator, auditLogger AuditLogger) *ThumbnailHandler {
	return &ThumbnailHandler{
		images:      images,
		accounts:    accounts,
		plans:       plans,
		blobs:       blobs,
		renderer:    renderer,
		policy:      evaluator,
		auditLogger: auditLogger,
	}
}

// GetThumbnail serves a cached thumbnail at the requested height,
// rendering it on first access.
func (h *ThumbnailHandler) GetThumbnail(c echo.Context) error {
	acct, p, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	imageUUID, err := uuid.Parse(c.Param(paramImageUUID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidImageUUID)
	}

	height, err := strconv.ParseInt(c.Param(paramHeight), 10, 32)
	if err != nil || height <= 0 {
		return respondError(c, http.StatusBadRequest, msgInvalidHeight)
	}

	ctx := c.Request().Context()
	img, err := h.images.GetByUUID(ctx, imageUUID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if err := h.policy.CanRenderThumbnail(acct, p, img, int32(height)); err != nil {
		h.auditLogger.LogFromContext(c, audit.ResourceTypeThumbnail, &img.UUID, audit.ActionRender, audit.StatusDenied, map[string]any{
			"height": height,
		})
		return RespondWithMappedError(c, err)
	}

	source := func(ctx context.Context) ([]byte, error) {
		return h.blobs.Read(ctx, img.StorageKey)
	}

	data, err := h.renderer.GetOrCreate(ctx, source, img.AccountID, img.UUID, int32(height))
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeThumbnail, &img.UUID, audit.ActionRender, err)
		return RespondWithMappedError(c, err)
	}

	return c.Blob(http.StatusOK, contentTypeJPEG, data)
}
