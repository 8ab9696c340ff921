package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/cashlink_backend/appctx"
)

func GetBusinessIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, appctx.ContextKeyBusinessId)
}

// SetBusinessIdInContext stamps the tenant onto the context so the tenant
// guard plugin can scope any query that forgot an explicit business_id filter.
func SetBusinessIdInContext(ctx context.Context, businessId string) context.Context {
	return appctx.Set(ctx, appctx.ContextKeyBusinessId, businessId)
}

// SetSkipTenantScopeInContext disables guard scoping for internal tools that
// work across tenants.
func SetSkipTenantScopeInContext(ctx context.Context) context.Context {
	return appctx.Set(ctx, appctx.ContextKeySkipTenantScope, true)
}
