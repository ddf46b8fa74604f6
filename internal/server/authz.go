package server

import (
	"context"
	"fmt"

	"github.com/pacedproton/mdslc/internal/web/auth"
)

// rolePermissions maps a JWT role to the resource/permission pairs it
// grants. There is no account store behind this: roles arrive as a
// claim on the bearer token itself, set when the token was issued.
var rolePermissions = map[string]map[string]bool{
	"admin":    {"compile:create": true, "compile:read": true},
	"compiler": {"compile:create": true, "compile:read": true},
	"viewer":   {"compile:read": true},
}

// roleChecker implements auth.PermissionChecker against the roles
// stashed on the request context by withAuth, rather than a user
// record fetched by ID.
type roleChecker struct{}

func (roleChecker) HasPermission(ctx context.Context, userID string, resource string, permission auth.Permission) (bool, error) {
	key := fmt.Sprintf("%s:%s", resource, permission)
	for _, role := range auth.GetCurrentRoles(ctx) {
		if rolePermissions[role][key] {
			return true, nil
		}
	}
	return false, nil
}
