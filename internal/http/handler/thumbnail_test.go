package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"image-service/internal/domain/account"
	"image-service/internal/domain/image"
	"image-service/internal/policy"
	"image-service/internal/storage/memory"
	"image-service/internal/thumbnail"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thumbnailFixture struct {
	handler  *ThumbnailHandler
	accounts *fakeAccountStore
	images   *fakeImageStore
	blobs    *memory.Store
	owner    *account.Account
	img      *image.Image
}

func newThumbnailFixture(t *testing.T) *thumbnailFixture {
	t.Helper()

	accounts := newFakeAccountStore()
	owner := &account.Account{ID: uuid.New(), Username: "owner", PlanID: basicPlan().ID}
	accounts.add(owner)

	blobs := memory.New()
	storageKey := "originals/" + owner.ID.String() + "/cat.png"
	require.NoError(t, blobs.Write(context.Background(), storageKey, pngBytes(t, 400, 300)))

	images := newFakeImageStore()
	img, err := images.Create(context.Background(), image.CreateImageInput{
		UUID:       uuid.New(),
		AccountID:  owner.ID,
		StorageKey: storageKey,
		FileName:   "cat.png",
	})
	require.NoError(t, err)

	h := NewThumbnailHandler(images, accounts, newFakePlanStore(basicPlan(), enterprisePlan()), blobs, thumbnail.NewGenerator(blobs), policy.NewEvaluator(), noopAudit{})

	return &thumbnailFixture{handler: h, accounts: accounts, images: images, blobs: blobs, owner: owner, img: img}
}

func (f *thumbnailFixture) request(e *echo.Echo, accountID uuid.UUID, imageUUID, height string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/images/"+imageUUID+"/"+height, nil)
	c, rec := authedContext(e, req, accountID)
	c.SetParamNames(paramImageUUID, paramHeight)
	c.SetParamValues(imageUUID, height)
	_ = f.handler.GetThumbnail(c)
	return rec
}

func TestThumbnailHandler_ServesResizedJPEG(t *testing.T) {
	e := echo.New()
	f := newThumbnailFixture(t)

	rec := f.request(e, f.owner.ID, f.img.UUID.String(), "200")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeJPEG, rec.Header().Get(echo.HeaderContentType))

	decoded, err := imaging.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dy())
}

func TestThumbnailHandler_SecondRequestServedFromCache(t *testing.T) {
	e := echo.New()
	f := newThumbnailFixture(t)

	first := f.request(e, f.owner.ID, f.img.UUID.String(), "200")
	require.Equal(t, http.StatusOK, first.Code)

	second := f.request(e, f.owner.ID, f.img.UUID.String(), "200")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	key := thumbnail.Key(f.owner.ID, f.img.UUID, 200)
	assert.Equal(t, 1, f.blobs.WriteCount(key))
}

func TestThumbnailHandler_HeightNotPermitted(t *testing.T) {
	e := echo.New()
	f := newThumbnailFixture(t)

	rec := f.request(e, f.owner.ID, f.img.UUID.String(), "400")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not permitted by your plan")
	assert.Contains(t, rec.Body.String(), "200")
}

func TestThumbnailHandler_ForeignImagePermittedHeight(t *testing.T) {
	e := echo.New()
	f := newThumbnailFixture(t)

	stranger := &account.Account{ID: uuid.New(), Username: "stranger", PlanID: basicPlan().ID}
	f.accounts.add(stranger)

	// The height is fine for the stranger's plan, so the denial names
	// ownership, not the height.
	rec := f.request(e, stranger.ID, f.img.UUID.String(), "200")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), msgNotOwner)
}

func TestThumbnailHandler_BadParams(t *testing.T) {
	e := echo.New()
	f := newThumbnailFixture(t)

	rec := f.request(e, f.owner.ID, "not-a-uuid", "200")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(e, f.owner.ID, f.img.UUID.String(), "zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(e, f.owner.ID, f.img.UUID.String(), "-5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThumbnailHandler_UnknownImage(t *testing.T) {
	e := echo.New()
	f := newThumbnailFixture(t)

	rec := f.request(e, f.owner.ID, uuid.NewString(), "200")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThumbnailHandler_CorruptSource(t *testing.T) {
	e := echo.New()
	f := newThumbnailFixture(t)

	require.NoError(t, f.blobs.Write(context.Background(), f.img.StorageKey, []byte("garbage")))

	rec := f.request(e, f.owner.ID, f.img.UUID.String(), "200")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
