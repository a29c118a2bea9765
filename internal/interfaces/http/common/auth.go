package common

import "context"

type contextKey string

const adminContextKey contextKey = "admin"

// AuthenticatedAdmin represents the JWT-derived operator of the admin routes.
type AuthenticatedAdmin struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ContextWithAdmin stores the authenticated admin into context.
func ContextWithAdmin(ctx context.Context, admin AuthenticatedAdmin) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// AdminFromContext extracts the authenticated admin from context.
func AdminFromContext(ctx context.Context) (AuthenticatedAdmin, bool) {
	admin, ok := ctx.Value(adminContextKey).(AuthenticatedAdmin)
	return admin, ok
}
