package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"image-service/internal/audit"
	"image-service/internal/imgformat"
	"image-service/internal/policy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type LinkHandler struct {
	images      ImageRepository
	accounts    AccountGetter
	plans       PlanGetter
	blobs       BlobStore
	signer      LinkSigner
	policy      policy.Evaluator
	baseURL     string
	auditLogger AuditLogger
}

func NewLinkHandler(images ImageRepository, accounts AccountGetter, plans PlanGetter, blobs BlobStore, signer LinkSigner, evaluator policy.Evaluator, baseURL string, auditLogger AuditLogger) *LinkHandler {
	return &LinkHandler{
		images:      images,
		accounts:    accounts,
		plans:       plans,
		blobs:       blobs,
		signer:      signer,
		policy:      evaluator,
		baseURL:     baseURL,
		auditLogger: auditLogger,
	}
}

type GenerateLinkResponse struct {
	Link string `json:"link"`
	TTL  int64  `json:"ttl"`
}

// GenerateLink issues a signed expiring link to the caller's own image.
func (h *LinkHandler) GenerateLink(c echo.Context) error {
	acct, p, err := currentAccount(c, h.accounts, h.plans)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	imageUUID, err := uuid.Parse(c.Param(paramImageUUID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidImageUUID)
	}

	expiry, err := strconv.ParseInt(c.Param(paramExpiry), 10, 64)
	if err != nil || expiry <= 0 {
		return respondError(c, http.StatusBadRequest, msgInvalidExpiry)
	}

	img, err := h.images.GetByUUID(c.Request().Context(), imageUUID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if img.AccountID != acct.ID {
		h.auditLogger.LogFromContext(c, audit.ResourceTypeLink, &img.UUID, audit.ActionIssue, audit.StatusDenied, nil)
		return respondError(c, http.StatusForbidden, msgNotOwner)
	}

	if err := h.policy.CanIssueLink(p, expiry); err != nil {
		h.auditLogger.LogFromContext(c, audit.ResourceTypeLink, &img.UUID, audit.ActionIssue, audit.StatusDenied, map[string]any{
			"expiry": expiry,
		})
		return RespondWithMappedError(c, err)
	}

	token := h.signer.Issue(acct.ID)
	link := fmt.Sprintf("%s/images/%s/link/%d?%s=%s", h.baseURL, img.UUID, expiry, queryParamToken, token)

	h.auditLogger.LogFromContext(c, audit.ResourceTypeLink, &img.UUID, audit.ActionIssue, audit.StatusSuccess, map[string]any{
		"expiry": expiry,
	})

	return c.JSON(http.StatusOK, GenerateLinkResponse{
		Link: link,
		TTL:  expiry,
	})
}

// RedeemLink serves the original bytes to anyone holding a valid token.
// Every failure mode returns the same response so a probing client learns
// nothing about which check tripped.
func (h *LinkHandler) RedeemLink(c echo.Context) error {
	imageUUID, err := uuid.Parse(c.Param(paramImageUUID))
	if err != nil {
		return respondError(c, http.StatusForbidden, msgLinkInvalid)
	}

	expiry, err := strconv.ParseInt(c.Param(paramExpiry), 10, 64)
	if err != nil || expiry <= 0 {
		return respondError(c, http.StatusForbidden, msgLinkInvalid)
	}

	accountID, ok := h.signer.Verify(c.QueryParam(queryParamToken), expiry)
	if !ok {
		h.auditLogger.LogFromContext(c, audit.ResourceTypeLink, &imageUUID, audit.ActionRedeem, audit.StatusDenied, nil)
		return respondError(c, http.StatusForbidden, msgLinkInvalid)
	}

	ctx := c.Request().Context()
	img, err := h.images.GetByUUID(ctx, imageUUID)
	if err != nil {
		return respondError(c, http.StatusForbidden, msgLinkInvalid)
	}

	// The token binds the issuer, not the image; honoring it only for the
	// issuer's own images keeps one leaked token from opening all of them.
	if img.AccountID != accountID {
		h.auditLogger.LogFromContext(c, audit.ResourceTypeLink, &img.UUID, audit.ActionRedeem, audit.StatusDenied, nil)
		return respondError(c, http.StatusForbidden, msgLinkInvalid)
	}

	data, err := h.blobs.Read(ctx, img.StorageKey)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgReadImageFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeLink, &img.UUID, audit.ActionRedeem, audit.StatusSuccess, nil)

	return c.Blob(http.StatusOK, imgformat.FromFilename(img.FileName).ContentType(), data)
}
