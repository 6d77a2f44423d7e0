package api

import (
	"context"

	"github.com/rpupo63/portfolio-api/models"
)

type keyType string

const adminKey keyType = "admin"

// ctxWithAdmin stores the authenticated admin on the request context
func ctxWithAdmin(ctx context.Context, admin *models.Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

// ctxGetAdmin returns the authenticated admin, or nil when the route ran without auth
func ctxGetAdmin(ctx context.Context) *models.Admin {
	admin, _ := ctx.Value(adminKey).(*models.Admin)
	return admin
}
