package domain

import "time"

// Session is the offline Shopify access token stored for a shop after install
type Session struct {
	ID          string    `json:"id"`
	Shop        string    `json:"shop"`
	AccessToken string    `json:"-"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OfflineSessionID is the id of the single offline session a shop holds
func OfflineSessionID(shop string) string {
	return "offline_" + shop
}
