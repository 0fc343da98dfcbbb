package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"image-service/internal/audit"
	"image-service/internal/domain/account"
	"image-service/internal/domain/image"
	"image-service/internal/domain/plan"
	"image-service/internal/imgformat"
	"image-service/internal/policy"
	apperrors "image-service/pkg/errors"
	"image-service/pkg/token"
	"image-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ImageHandler struct {
	images        ImageRepository
	accounts      AccountGetter
	plans         PlanGetter
	blobs         BlobStore
	policy        policy.Evaluator
	baseURL       string
	maxUploadSize int64
	pageSize      int
	auditLogger   AuditLogger
}

func NewImageHandler(images ImageRepository, accounts AccountGetter, plans PlanGetter, blobs BlobStore, evaluator policy.Evaluator, baseURL string, maxUploadSize int64, pageSize int, auditLogger AuditLogger) *ImageHandler {
	return &ImageHandler{
		images:        images,
		accounts:      accounts,
		plans:         plans,
		blobs:         blobs,
		policy:        evaluator,
		baseURL:       baseURL,
		maxUploadSize: maxUploadSize,
		pageSize:      pageSize,
		auditLogger:   auditLogger,
	}
}

type ImageResponse struct {
	UUID          string            `json:"uuid"`
	FileName      string            `json:"file_name"`
	Alt           *string           `json:"alt"`
	Thumbnails    map[string]string `json:"thumbnails"`
	OriginalURL   string            `json:"original_url,omitempty"`
	ExpiringLinks bool              `json:"expiring_links"`
	CreatedAt     time.Time         `json:"created_at"`
}

type ListImagesResponse struct {
	Images []ImageResponse `json:"images"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type UpdateImageRequest struct {
	Alt *string `json:"alt"`
}

// buildImageResponse renders an image through the lens of the viewer's plan:
// one thumbnail URL per permitted height, the original URL only when the plan
// grants it.
func (h *ImageHandler) buildImageResponse(acct *account.Account, p *plan.Plan, img *image.Image) ImageResponse {
	thumbnails := make(map[string]string)
	for _, height := range h.policy.AuthorizedThumbnailHeights(p) {
		thumbnails[strconv.Itoa(int(height))] = fmt.Sprintf("%s/api/images/%s/%d", h.baseURL, img.UUID, height)
	}

	resp := ImageResponse{
		UUID:          img.UUID.String(),
		FileName:      img.FileName,
		Alt:           img.Alt,
		Thumbnails:    thumbnails,
		ExpiringLinks: p.Allows(plan.CapabilityExpiringLink),
		CreatedAt:     img.CreatedAt,
	}

	if h.policy.CanViewOriginal(acct, p, img) {
		resp.OriginalURL = fmt.Sprintf("%s/api/images/%s/original", h.baseURL, img.UUID)
	}

	return resp
}

func (h *ImageHandler) ListImages(c echo.Context) error {
	acct, p, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	limit := h.pageSize
	if raw := c.QueryParam(queryParamLimit); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= h.pageSize {
			limit = v
		}
	}

	offset := 0
	if raw := c.QueryParam(queryParamOffset); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}

	images, err := h.images.List(c.Request().Context(), image.ListImagesFilter{
		AccountID: acct.ID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgListImagesFail)
	}

	resp := ListImagesResponse{
		Images: make([]ImageResponse, 0, len(images)),
		Limit:  limit,
		Offset: offset,
	}
	for _, img := range images {
		resp.Images = append(resp.Images, h.buildImageResponse(acct, p, img))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ImageHandler) UploadImage(c echo.Context) error {
	acct, p, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileRequired)
	}

	if fileHeader.Size > h.maxUploadSize {
		return respondError(c, http.StatusRequestEntityTooLarge, msgFileTooLarge)
	}

	if err := validator.FileName(fileHeader.Filename); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileRequired)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxUploadSize+1))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgStoreImageFail)
	}
	if int64(len(data)) > h.maxUploadSize {
		return respondError(c, http.StatusRequestEntityTooLarge, msgFileTooLarge)
	}

	// Trust the bytes, not the declared content type or extension.
	if _, ok := imgformat.Detect(data); !ok {
		return respondError(c, http.StatusBadRequest, msgUnsupportedImageFormat)
	}

	storedName, err := token.GenerateStoredName(fileHeader.Filename)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgStoreImageFail)
	}
	storageKey := fmt.Sprintf("originals/%s/%s", acct.ID, storedName)

	ctx := c.Request().Context()
	if err := h.blobs.Write(ctx, storageKey, data); err != nil {
		return respondError(c, http.StatusInternalServerError, msgStoreImageFail)
	}

	img, err := h.images.Create(ctx, image.CreateImageInput{
		UUID:       uuid.New(),
		AccountID:  acct.ID,
		StorageKey: storageKey,
		FileName:   fileHeader.Filename,
	})
	if err != nil {
		// Keep storage consistent with the database on a failed insert.
		if delErr := h.blobs.Delete(ctx, storageKey); delErr != nil {
			c.Logger().Errorf("failed to remove orphaned blob %s: %v", storageKey, delErr)
		}
		return respondError(c, http.StatusInternalServerError, msgStoreImageFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeImage, &img.UUID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"file_name": img.FileName,
		"size":      len(data),
	})

	return c.JSON(http.StatusCreated, h.buildImageResponse(acct, p, img))
}

func (h *ImageHandler) GetImage(c echo.Context) error {
	acct, p, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	img, err := h.ownedImage(c, acct)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, h.buildImageResponse(acct, p, img))
}

func (h *ImageHandler) UpdateImage(c echo.Context) error {
	acct, p, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	img, err := h.ownedImage(c, acct)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	var req UpdateImageRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if req.Alt != nil {
		if err := validator.AltText(*req.Alt); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}

	ctx := c.Request().Context()
	if err := h.images.Update(ctx, img.UUID, image.UpdateImageInput{Alt: req.Alt}); err != nil {
		return respondError(c, http.StatusInternalServerError, msgUpdateImageFail)
	}

	img, err = h.images.GetByUUID(ctx, img.UUID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgUpdateImageFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeImage, &img.UUID, audit.ActionUpdate, audit.StatusSuccess, nil)

	return c.JSON(http.StatusOK, h.buildImageResponse(acct, p, img))
}

func (h *ImageHandler) DeleteImage(c echo.Context) error {
	acct, _, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	img, err := h.ownedImage(c, acct)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	ctx := c.Request().Context()
	if err := h.images.Delete(ctx, img.UUID); err != nil {
		return respondError(c, http.StatusInternalServerError, msgDeleteImageFail)
	}

	// Blob cleanup is best effort; the row is already gone.
	if err := h.blobs.Delete(ctx, img.StorageKey); err != nil {
		c.Logger().Errorf("failed to delete blob %s: %v", img.StorageKey, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeImage, &img.UUID, audit.ActionDelete, audit.StatusSuccess, nil)

	return c.NoContent(http.StatusNoContent)
}

// GetOriginal serves the stored bytes unchanged, gated on the plan's
// original-image capability.
func (h *ImageHandler) GetOriginal(c echo.Context) error {
	acct, p, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	img, err := h.ownedImage(c, acct)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if !h.policy.CanViewOriginal(acct, p, img) {
		h.auditLogger.LogFromContext(c, audit.ResourceTypeImage, &img.UUID, audit.ActionRead, audit.StatusDenied, nil)
		return respondError(c, http.StatusForbidden, msgOriginalNotAuthorized)
	}

	data, err := h.blobs.Read(c.Request().Context(), img.StorageKey)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgReadImageFail)
	}

	return c.Blob(http.StatusOK, imgformat.FromFilename(img.FileName).ContentType(), data)
}

// ownedImage resolves the :uuid path parameter to an image owned by acct.
// Foreign images surface as not found so image identifiers do not leak.
func (h *ImageHandler) ownedImage(c echo.Context, acct *account.Account) (*image.Image, error) {
	imageUUID, err := uuid.Parse(c.Param(paramImageUUID))
	if err != nil {
		return nil, apperrors.BadRequest(msgInvalidImageUUID)
	}

	img, err := h.images.GetByUUID(c.Request().Context(), imageUUID)
	if err != nil {
		return nil, err
	}

	if img.AccountID != acct.ID {
		return nil, apperrors.NotFound("image")
	}

	return img, nil
}
