package handler

import (
	"errors"
	"net/http"
	"strings"

	"image-service/internal/audit"
	"image-service/internal/domain/account"
	"image-service/internal/domain/plan"
	apperrors "image-service/pkg/errors"
	"image-service/pkg/password"
	"image-service/pkg/validator"

	"github.com/labstack/echo/v4"
)

// Pre-computed bcrypt hash (cost 12) used to equalize timing on failed lookups.
// The actual plaintext is irrelevant — this just ensures constant-time response.
const dummyBcryptHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

type AuthHandler struct {
	accounts    AccountRepository
	jwtService  TokenGenerator
	auditLogger AuditLogger
}

func NewAuthHandler(accounts AccountRepository, jwtService TokenGenerator, auditLogger AuditLogger) *AuthHandler {
	return &AuthHandler{
		accounts:    accounts,
		jwtService:  jwtService,
		auditLogger: auditLogger,
	}
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupResponse struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Token     string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if err := validator.Username(req.Username); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if err := validator.Password(req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	// New accounts land on the default plan until upgraded by an admin.
	acct, err := h.accounts.Create(c.Request().Context(), account.CreateAccountInput{
		Username:     req.Username,
		PasswordHash: passwordHash,
		PlanID:       plan.DefaultPlanID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgUsernameAlreadyExists)
		}
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	token, err := h.jwtService.Generate(acct.ID, acct.Username)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeAccount, &acct.ID, audit.ActionSignup, audit.StatusSuccess, nil)

	return c.JSON(http.StatusCreated, SignupResponse{
		AccountID: acct.ID.String(),
		Username:  acct.Username,
		Token:     token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		password.Verify("", dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	acct, err := h.accounts.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		// Run bcrypt against a dummy hash to prevent timing oracle.
		// Without this, "account not found" returns in ~1ms while
		// "wrong password" takes ~200ms, leaking username existence.
		password.Verify(req.Password, dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !password.Verify(req.Password, acct.PasswordHash) {
		h.auditLogger.LogFromContext(c, audit.ResourceTypeAccount, &acct.ID, audit.ActionLogin, audit.StatusFailure, nil)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	token, err := h.jwtService.Generate(acct.ID, acct.Username)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeAccount, &acct.ID, audit.ActionLogin, audit.StatusSuccess, nil)

	return c.JSON(http.StatusOK, LoginResponse{
		Token: token,
	})
}
