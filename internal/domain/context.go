package domain

import "context"

type contextKey string

const shopContextKey contextKey = "shop"

// WithShop stores the authenticated shop domain in the context
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopContextKey, shop)
}

// ShopFromContext returns the authenticated shop domain, or "" if none
func ShopFromContext(ctx context.Context) string {
	shop, _ := ctx.Value(shopContextKey).(string)
	return shop
}
