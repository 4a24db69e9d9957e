package oauth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the claims of a locally issued token.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id,omitempty"`
	Scope    string `json:"scope,omitempty"`
}

// Signer issues and verifies RS256 tokens for one issuer and audience.
type Signer struct {
	key      *rsa.PrivateKey
	kid      string
	issuer   string
	audience string
	clock    func() time.Time
}

// NewSigner creates a signer.
func NewSigner(key *rsa.PrivateKey, kid, issuer, audience string) *Signer {
	return &Signer{key: key, kid: kid, issuer: issuer, audience: audience, clock: time.Now}
}

// Issue signs a token for subject valid for ttl.
func (s *Signer) Issue(subject, clientID, scope string, ttl time.Duration) (string, error) {
	now := s.clock()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ClientID: clientID,
		Scope:    scope,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.kid
	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, audience and the time claims.
func (s *Signer) Verify(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return &s.key.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("verify token: missing iat")
	}
	return &claims, nil
}

// JWKS returns the public key set.
func (s *Signer) JWKS() JWKS {
	return newJWKS(&s.key.PublicKey, s.kid)
}
