package auth

import "context"

type contextKey int

const (
	currentUserKey contextKey = iota
	currentRolesKey
)

// GetCurrentUser retrieves the current user ID from the context.
// Returns an empty string if no user is authenticated.
func GetCurrentUser(ctx context.Context) string {
	userID, _ := ctx.Value(currentUserKey).(string)
	return userID
}

// GetUserID is an alias for GetCurrentUser for backwards compatibility.
func GetUserID(ctx context.Context) string {
	return GetCurrentUser(ctx)
}

// SetCurrentUser adds the user ID to the context.
// Returns a new context with the user ID set.
func SetCurrentUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, currentUserKey, userID)
}

// GetCurrentRoles retrieves the current user's roles from the context.
func GetCurrentRoles(ctx context.Context) []string {
	roles, _ := ctx.Value(currentRolesKey).([]string)
	return roles
}

// SetCurrentRoles adds the user's roles to the context.
func SetCurrentRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, currentRolesKey, roles)
}
