package plan

import (
	"time"
)

// Capability is a boolean entitlement attached to a Plan.
type Capability string

const (
	CapabilityOriginalImage Capability = "original_image"
	CapabilityExpiringLink  Capability = "expiring_link"
)

// TimeRange is an inclusive range of seconds. A nil bound means the range is
// unbounded on that side.
type TimeRange struct {
	Lower *int64
	Upper *int64
}

func (r TimeRange) Contains(seconds int64) bool {
	if r.Lower != nil && seconds < *r.Lower {
		return false
	}
	if r.Upper != nil && seconds > *r.Upper {
		return false
	}
	return true
}

// Plan is a named bundle of entitlements gating image, thumbnail and
// expiring-link features. The row with DefaultPlanID must always exist; it is
// the fallback assignment for accounts whose plan is deleted.
type Plan struct {
	ID                        int64
	Name                      string
	AvailableThumbnailHeights []int32
	CanAccessOriginalImage    bool
	CanFetchExpiringLink      bool
	ExpiringLinkTimeRange     TimeRange
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

const DefaultPlanID int64 = 1

// Allows reports whether the plan grants the given capability. New
// capabilities are added here without touching call sites.
func (p *Plan) Allows(c Capability) bool {
	switch c {
	case CapabilityOriginalImage:
		return p.CanAccessOriginalImage
	case CapabilityExpiringLink:
		return p.CanFetchExpiringLink
	default:
		return false
	}
}

// ThumbnailHeights returns the ordered heights the plan permits. An empty
// slice means thumbnails are not permitted at all.
func (p *Plan) ThumbnailHeights() []int32 {
	if p.AvailableThumbnailHeights == nil {
		return []int32{}
	}
	return p.AvailableThumbnailHeights
}

func (p *Plan) HeightAllowed(height int32) bool {
	for _, h := range p.AvailableThumbnailHeights {
		if h == height {
			return true
		}
	}
	return false
}

// ExpiryWithinRange reports whether the requested expiry seconds fall inside
// the plan's inclusive expiring-link range.
func (p *Plan) ExpiryWithinRange(seconds int64) bool {
	return p.ExpiringLinkTimeRange.Contains(seconds)
}

type CreatePlanInput struct {
	Name                      string
	AvailableThumbnailHeights []int32
	CanAccessOriginalImage    bool
	CanFetchExpiringLink      bool
	ExpiringLinkTimeRange     TimeRange
}
