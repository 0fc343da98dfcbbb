package auth

const (
	ContextKeyAccountID = "account_id"
	ContextKeyUsername  = "username"

	jsonKeyError = "error"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgAccountNotAuthenticated = "account not authenticated"
	msgInvalidAccountIDCtx     = "invalid account ID in context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)
