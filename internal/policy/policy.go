package policy

import (
	"fmt"
	"strings"

	"image-service/internal/domain/account"
	"image-service/internal/domain/image"
	"image-service/internal/domain/plan"
	apperrors "image-service/pkg/errors"
)

const (
	msgHeightNotPermittedFmt = "requested thumbnail height is not permitted by your plan. Supported heights (px): %s"
	msgNotOwner              = "you are not the owner of this image"
	msgLinksNotAuthorized    = "you are not authorized to generate expiring links"
	msgExpiryOutOfBoundsFmt  = "expiry time out of bounds. Valid expiry time is between %s and %s seconds"
	unboundedLower           = "1"
	unboundedUpper           = "unlimited"
)

// Evaluator decides, per request, what a plan entitles an account to do with
// an image. It is pure: no storage, no HTTP, no side effects. Every other
// component consults it before acting, and all tier variation lives here.
type Evaluator struct{}

func NewEvaluator() Evaluator {
	return Evaluator{}
}

// CanViewOriginal reports whether the account may fetch the original bytes.
// Ownership is mandatory; the plan entitlement is necessary but not
// sufficient on its own.
func (Evaluator) CanViewOriginal(acct *account.Account, p *plan.Plan, img *image.Image) bool {
	if img.AccountID != acct.ID {
		return false
	}
	return p.Allows(plan.CapabilityOriginalImage)
}

// AuthorizedThumbnailHeights returns exactly the plan's ordered height list,
// empty when the plan forbids thumbnails.
func (Evaluator) AuthorizedThumbnailHeights(p *plan.Plan) []int32 {
	return p.ThumbnailHeights()
}

// CanRenderThumbnail returns nil when the account may generate and view a
// thumbnail of the requested height. The height check runs before the
// ownership check so the two refusals stay distinguishable.
func (Evaluator) CanRenderThumbnail(acct *account.Account, p *plan.Plan, img *image.Image, height int32) error {
	if !p.HeightAllowed(height) {
		return apperrors.Denied(fmt.Sprintf(msgHeightNotPermittedFmt, formatHeights(p.ThumbnailHeights())))
	}
	if img.AccountID != acct.ID {
		return apperrors.Denied(msgNotOwner)
	}
	return nil
}

// CanIssueLink returns nil when the account's plan permits issuing an
// expiring link with the requested lifetime in seconds. Bounds are inclusive;
// an absent bound leaves that side unconstrained.
func (Evaluator) CanIssueLink(p *plan.Plan, expirySeconds int64) error {
	if !p.Allows(plan.CapabilityExpiringLink) {
		return apperrors.Denied(msgLinksNotAuthorized)
	}
	if !p.ExpiryWithinRange(expirySeconds) {
		return apperrors.Denied(fmt.Sprintf(msgExpiryOutOfBoundsFmt,
			formatBound(p.ExpiringLinkTimeRange.Lower, unboundedLower),
			formatBound(p.ExpiringLinkTimeRange.Upper, unboundedUpper)))
	}
	return nil
}

func formatHeights(heights []int32) string {
	if len(heights) == 0 {
		return "none"
	}
	parts := make([]string, len(heights))
	for i, h := range heights {
		parts[i] = fmt.Sprintf("%d", h)
	}
	return strings.Join(parts, ", ")
}

func formatBound(bound *int64, fallback string) string {
	if bound == nil {
		return fallback
	}
	return fmt.Sprintf("%d", *bound)
}
