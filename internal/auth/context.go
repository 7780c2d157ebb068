package auth

import (
	"context"
	"strings"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID   int64
	Username string
	FullName string
	Role     string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasRole checks the role name case-insensitively
func (u *UserContext) HasRole(role string) bool {
	return u.Role != "" && strings.EqualFold(u.Role, role)
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}
