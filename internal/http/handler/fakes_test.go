package handler

import (
	"context"
	"sync"

	"image-service/internal/audit"
	"image-service/internal/domain/account"
	"image-service/internal/domain/image"
	"image-service/internal/domain/plan"
	apperrors "image-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*account.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[uuid.UUID]*account.Account)}
}

func (s *fakeAccountStore) add(acct *account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = acct
}

func (s *fakeAccountStore) Create(_ context.Context, input account.CreateAccountInput) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Username == input.Username {
			return nil, apperrors.Conflict("account with this username already exists")
		}
	}
	acct := &account.Account{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		PlanID:       input.PlanID,
	}
	s.accounts[acct.ID] = acct
	return acct, nil
}

func (s *fakeAccountStore) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.NotFound("account")
	}
	return acct, nil
}

func (s *fakeAccountStore) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.Username == username {
			return acct, nil
		}
	}
	return nil, apperrors.NotFound("account")
}

type fakePlanStore struct {
	plans map[int64]*plan.Plan
}

func newFakePlanStore(plans ...*plan.Plan) *fakePlanStore {
	s := &fakePlanStore{plans: make(map[int64]*plan.Plan)}
	for _, p := range plans {
		s.plans[p.ID] = p
	}
	return s
}

func (s *fakePlanStore) GetByID(_ context.Context, id int64) (*plan.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, apperrors.NotFound("plan")
	}
	return p, nil
}

type fakeImageStore struct {
	mu     sync.Mutex
	images []*image.Image
	nextID int64
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{}
}

func (s *fakeImageStore) Create(_ context.Context, input image.CreateImageInput) (*image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	img := &image.Image{
		ID:         s.nextID,
		UUID:       input.UUID,
		AccountID:  input.AccountID,
		StorageKey: input.StorageKey,
		FileName:   input.FileName,
		Alt:        input.Alt,
	}
	s.images = append(s.images, img)
	return img, nil
}

func (s *fakeImageStore) GetByUUID(_ context.Context, imageUUID uuid.UUID) (*image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, img := range s.images {
		if img.UUID == imageUUID {
			return img, nil
		}
	}
	return nil, apperrors.NotFound("image")
}

func (s *fakeImageStore) List(_ context.Context, filter image.ListImagesFilter) ([]*image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*image.Image
	for _, img := range s.images {
		if img.AccountID == filter.AccountID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (s *fakeImageStore) Update(_ context.Context, imageUUID uuid.UUID, input image.UpdateImageInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, img := range s.images {
		if img.UUID == imageUUID {
			if input.Alt != nil {
				img.Alt = input.Alt
			}
			return nil
		}
	}
	return apperrors.NotFound("image")
}

func (s *fakeImageStore) Delete(_ context.Context, imageUUID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, img := range s.images {
		if img.UUID == imageUUID {
			s.images = append(s.images[:i], s.images[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("image")
}

type noopAudit struct{}

func (noopAudit) LogFromContext(echo.Context, audit.ResourceType, *uuid.UUID, audit.Action, audit.Status, map[string]any) error {
	return nil
}

func (noopAudit) LogError(echo.Context, audit.ResourceType, *uuid.UUID, audit.Action, error) error {
	return nil
}

type staticTokenGenerator struct{ token string }

func (g staticTokenGenerator) Generate(uuid.UUID, string) (string, error) {
	return g.token, nil
}

func basicPlan() *plan.Plan {
	return &plan.Plan{
		ID:                        1,
		Name:                      "Basic",
		AvailableThumbnailHeights: []int32{200},
	}
}

func enterprisePlan() *plan.Plan {
	lower := int64(300)
	return &plan.Plan{
		ID:                        3,
		Name:                      "Enterprise",
		AvailableThumbnailHeights: []int32{200, 400},
		CanAccessOriginalImage:    true,
		CanFetchExpiringLink:      true,
		ExpiringLinkTimeRange:     plan.TimeRange{Lower: &lower},
	}
}
