package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"image-service/internal/domain/account"
	"image-service/internal/domain/image"
	"image-service/internal/policy"
	"image-service/internal/signedlink"
	"image-service/internal/storage/memory"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningSecret = "9f2c81d7a4e6b3058cfd1e7a62b94073"

type linkFixture struct {
	handler  *LinkHandler
	accounts *fakeAccountStore
	images   *fakeImageStore
	blobs    *memory.Store
	owner    *account.Account
	img      *image.Image
	imgData  []byte
	advance  func(time.Duration)
}

func newLinkFixture(t *testing.T) *linkFixture {
	t.Helper()

	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	advance := func(d time.Duration) { now = now.Add(d) }

	accounts := newFakeAccountStore()
	owner := &account.Account{ID: uuid.New(), Username: "owner", PlanID: enterprisePlan().ID}
	accounts.add(owner)

	blobs := memory.New()
	data := pngBytes(t, 40, 30)
	storageKey := "originals/" + owner.ID.String() + "/cat.png"
	require.NoError(t, blobs.Write(context.Background(), storageKey, data))

	images := newFakeImageStore()
	img, err := images.Create(context.Background(), image.CreateImageInput{
		UUID:       uuid.New(),
		AccountID:  owner.ID,
		StorageKey: storageKey,
		FileName:   "cat.png",
	})
	require.NoError(t, err)

	signer := signedlink.NewSignerWithClock(testSigningSecret, clock)
	h := NewLinkHandler(images, accounts, newFakePlanStore(basicPlan(), enterprisePlan()), blobs, signer, policy.NewEvaluator(), testBaseURL, noopAudit{})

	return &linkFixture{handler: h, accounts: accounts, images: images, blobs: blobs, owner: owner, img: img, imgData: data, advance: advance}
}

func (f *linkFixture) generate(e *echo.Echo, accountID uuid.UUID, imageUUID, expiry string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/images/"+imageUUID+"/generate-link/"+expiry, nil)
	c, rec := authedContext(e, req, accountID)
	c.SetParamNames(paramImageUUID, paramExpiry)
	c.SetParamValues(imageUUID, expiry)
	_ = f.handler.GenerateLink(c)
	return rec
}

func (f *linkFixture) redeem(e *echo.Echo, link string) *httptest.ResponseRecorder {
	parsed, err := url.Parse(link)
	if err != nil {
		panic(err)
	}

	req := httptest.NewRequest(http.MethodGet, parsed.RequestURI(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Path shape: /images/:uuid/link/:expiry
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	c.SetParamNames(paramImageUUID, paramExpiry)
	c.SetParamValues(segments[1], segments[3])

	_ = f.handler.RedeemLink(c)
	return rec
}

func TestLinkHandler_GenerateAndRedeem(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	rec := f.generate(e, f.owner.ID, f.img.UUID.String(), "500")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(500), resp.TTL)
	assert.Contains(t, resp.Link, testBaseURL+"/images/"+f.img.UUID.String()+"/link/500?token=")

	redeemed := f.redeem(e, resp.Link)
	require.Equal(t, http.StatusOK, redeemed.Code)
	assert.Equal(t, "image/png", redeemed.Header().Get(echo.HeaderContentType))
	assert.Equal(t, f.imgData, redeemed.Body.Bytes())
}

func TestLinkHandler_LinkExpires(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	rec := f.generate(e, f.owner.ID, f.img.UUID.String(), "500")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	f.advance(501 * time.Second)

	redeemed := f.redeem(e, resp.Link)
	assert.Equal(t, http.StatusForbidden, redeemed.Code)
	assert.Contains(t, redeemed.Body.String(), msgLinkInvalid)
}

func TestLinkHandler_TamperedTokenRejected(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	rec := f.generate(e, f.owner.ID, f.img.UUID.String(), "500")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	tampered := resp.Link[:len(resp.Link)-4] + "AAAA"
	redeemed := f.redeem(e, tampered)
	assert.Equal(t, http.StatusForbidden, redeemed.Code)
}

func TestLinkHandler_PlanWithoutLinksIsDenied(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	basic := &account.Account{ID: uuid.New(), Username: "basic", PlanID: basicPlan().ID}
	f.accounts.add(basic)

	img, err := f.images.Create(context.Background(), image.CreateImageInput{
		UUID:       uuid.New(),
		AccountID:  basic.ID,
		StorageKey: "originals/" + basic.ID.String() + "/dog.png",
		FileName:   "dog.png",
	})
	require.NoError(t, err)

	rec := f.generate(e, basic.ID, img.UUID.String(), "500")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized to generate expiring links")
}

func TestLinkHandler_ExpiryOutOfBounds(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	// Enterprise requires at least 300 seconds.
	rec := f.generate(e, f.owner.ID, f.img.UUID.String(), "299")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of bounds")

	rec = f.generate(e, f.owner.ID, f.img.UUID.String(), "300")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLinkHandler_CannotIssueForForeignImage(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	other := &account.Account{ID: uuid.New(), Username: "other", PlanID: enterprisePlan().ID}
	f.accounts.add(other)

	rec := f.generate(e, other.ID, f.img.UUID.String(), "500")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), msgNotOwner)
}

func TestLinkHandler_TokenBoundToIssuer(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	// A valid token issued for one account cannot unlock another account's image.
	other := &account.Account{ID: uuid.New(), Username: "other", PlanID: enterprisePlan().ID}
	f.accounts.add(other)

	otherImg, err := f.images.Create(context.Background(), image.CreateImageInput{
		UUID:       uuid.New(),
		AccountID:  other.ID,
		StorageKey: "originals/" + other.ID.String() + "/dog.png",
		FileName:   "dog.png",
	})
	require.NoError(t, err)

	rec := f.generate(e, f.owner.ID, f.img.UUID.String(), "500")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	crossed := strings.Replace(resp.Link, f.img.UUID.String(), otherImg.UUID.String(), 1)
	redeemed := f.redeem(e, crossed)
	assert.Equal(t, http.StatusForbidden, redeemed.Code)
	assert.Contains(t, redeemed.Body.String(), msgLinkInvalid)
}

func TestLinkHandler_InvalidExpiryParam(t *testing.T) {
	e := echo.New()
	f := newLinkFixture(t)

	rec := f.generate(e, f.owner.ID, f.img.UUID.String(), "soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.generate(e, f.owner.ID, f.img.UUID.String(), "-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
