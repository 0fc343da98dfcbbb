package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup(t *testing.T) {
	e := echo.New()
	accounts := newFakeAccountStore()
	h := NewAuthHandler(accounts, staticTokenGenerator{token: "signed-token"}, noopAudit{})

	c, rec := postJSON(e, "/auth/signup", `{"username":"alice","password":"correct horse battery"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SignupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "signed-token", resp.Token)
	assert.NotEmpty(t, resp.AccountID)

	// Passwords are never stored in the clear.
	acct, err := accounts.GetByUsername(c.Request().Context(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", acct.PasswordHash)
}

func TestAuthHandler_SignupDuplicateUsername(t *testing.T) {
	e := echo.New()
	accounts := newFakeAccountStore()
	h := NewAuthHandler(accounts, staticTokenGenerator{token: "t"}, noopAudit{})

	c, rec := postJSON(e, "/auth/signup", `{"username":"alice","password":"correct horse battery"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, "/auth/signup", `{"username":"alice","password":"another password!!"}`)
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), msgUsernameAlreadyExists)
}

func TestAuthHandler_SignupRejectsWeakInput(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(newFakeAccountStore(), staticTokenGenerator{token: "t"}, noopAudit{})

	tests := []struct {
		name string
		body string
	}{
		{"short password", `{"username":"alice","password":"short"}`},
		{"empty username", `{"username":"","password":"correct horse battery"}`},
		{"invalid username chars", `{"username":"al ice","password":"correct horse battery"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(e, "/auth/signup", tt.body)
			require.NoError(t, h.Signup(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAuthHandler_LoginRoundTrip(t *testing.T) {
	e := echo.New()
	accounts := newFakeAccountStore()
	h := NewAuthHandler(accounts, staticTokenGenerator{token: "session-token"}, noopAudit{})

	c, rec := postJSON(e, "/auth/signup", `{"username":"bob","password":"correct horse battery"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, "/auth/login", `{"username":"bob","password":"correct horse battery"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-token", resp.Token)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	e := echo.New()
	accounts := newFakeAccountStore()
	h := NewAuthHandler(accounts, staticTokenGenerator{token: "t"}, noopAudit{})

	c, rec := postJSON(e, "/auth/signup", `{"username":"carol","password":"correct horse battery"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Wrong password and unknown username produce identical responses.
	c, recWrong := postJSON(e, "/auth/login", `{"username":"carol","password":"wrong password!!"}`)
	require.NoError(t, h.Login(c))
	c, recUnknown := postJSON(e, "/auth/login", `{"username":"nobody","password":"wrong password!!"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.JSONEq(t, recWrong.Body.String(), recUnknown.Body.String())
}

func TestAuthHandler_RejectsNonJSONBody(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(newFakeAccountStore(), staticTokenGenerator{token: "t"}, noopAudit{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("username=alice"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
