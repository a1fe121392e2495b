package session

import "context"

type ctxKey string

const (
	userKey  ctxKey = "carepulse.user_id"
	roleKey  ctxKey = "carepulse.user_role"
	tokenKey ctxKey = "carepulse.token_id"
)

// WithUser stores the authenticated user's id and role in context.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromContext extracts the authenticated user id if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

// RoleFromContext extracts the authenticated user's role if present.
func RoleFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(roleKey)
	if val == nil {
		return "", false
	}
	role, ok := val.(string)
	return role, ok && role != ""
}

// WithTokenID stores the session token id in context so sign-out can
// revoke the exact session that made the request.
func WithTokenID(ctx context.Context, tokenID string) context.Context {
	return context.WithValue(ctx, tokenKey, tokenID)
}

// TokenIDFromContext extracts the session token id if present.
func TokenIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(tokenKey)
	if val == nil {
		return "", false
	}
	tokenID, ok := val.(string)
	return tokenID, ok && tokenID != ""
}
