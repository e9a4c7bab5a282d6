package shopify

import (
	"regexp"
	"strings"
)

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// IsValidShopDomain reports whether shop looks like a *.myshopify.com domain
func IsValidShopDomain(shop string) bool {
	return shopDomainPattern.MatchString(strings.ToLower(shop))
}

// NormalizeShopDomain lower-cases shop and strips a scheme and trailing slash
func NormalizeShopDomain(shop string) string {
	shop = strings.ToLower(strings.TrimSpace(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	return strings.TrimRight(shop, "/")
}
