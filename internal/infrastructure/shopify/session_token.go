package shopify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims of an App Bridge session token
type SessionClaims struct {
	Dest string `json:"dest"`
	Sid  string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokenVerifier validates the bearer tokens embedded admin pages send
type SessionTokenVerifier struct {
	apiKey    string
	apiSecret []byte
	leeway    time.Duration
}

// NewSessionTokenVerifier creates a verifier for tokens issued to apiKey
func NewSessionTokenVerifier(apiKey, apiSecret string) *SessionTokenVerifier {
	return &SessionTokenVerifier{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		leeway:    5 * time.Second,
	}
}

// Verify checks signature, audience and lifetime, and returns the shop domain
// the token was issued for
func (v *SessionTokenVerifier) Verify(token string) (string, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.apiSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.apiKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if !parsed.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return "", fmt.Errorf("invalid session token destination %q", claims.Dest)
	}
	shop := strings.ToLower(dest.Host)
	if !IsValidShopDomain(shop) {
		return "", fmt.Errorf("invalid shop in session token: %s", shop)
	}
	return shop, nil
}

// Sign issues a session token for shop; used by tooling and tests
func (v *SessionTokenVerifier) Sign(shop string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Dest: "https://" + shop,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://" + shop + "/admin",
			Audience:  jwt.ClaimStrings{v.apiKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.apiSecret)
}
