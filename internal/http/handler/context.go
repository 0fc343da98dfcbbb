package handler

import (
	"errors"

	"image-service/internal/auth"
	"image-service/internal/domain/account"
	"image-service/internal/domain/plan"
	apperrors "image-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// currentAccount resolves the authenticated account and its plan.
// Accounts always have a plan; a dangling plan id means the database
// invariant is broken and surfaces as an internal error.
func currentAccount(c echo.Context, accounts AccountGetter, plans PlanGetter) (*account.Account, *plan.Plan, error) {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return nil, nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	ctx := c.Request().Context()
	acct, err := accounts.GetByID(ctx, accountID)
	if err != nil {
		// A valid token for a deleted account is stale credentials.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized(msgInvalidCredentials)
		}
		return nil, nil, apperrors.InternalServer(msgResolveAccountFail, err)
	}

	p, err := plans.GetByID(ctx, acct.PlanID)
	if err != nil {
		return nil, nil, apperrors.InternalServer(msgResolveAccountFail, err)
	}

	return acct, p, nil
}
