package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rsaliu/store-lib/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default lifetimes per token type.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultOneTimeTTL = 24 * time.Hour
)

// Claims are the JWT claims of an issued token.
type Claims struct {
	jwt.RegisteredClaims
	Type models.TokenType `json:"typ"`
}

// IssuerConfig configures an Issuer.
type IssuerConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret []byte
	issuer string
	ttl    map[models.TokenType]time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. The secret is required.
func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	access := cfg.AccessTTL
	if access <= 0 {
		access = DefaultAccessTTL
	}
	refresh := cfg.RefreshTTL
	if refresh <= 0 {
		refresh = DefaultRefreshTTL
	}
	return &Issuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl: map[models.TokenType]time.Duration{
			models.TokenAccess:        access,
			models.TokenRefresh:       refresh,
			models.TokenConfirmation:  DefaultOneTimeTTL,
			models.TokenPasswordReset: DefaultOneTimeTTL,
		},
		now: time.Now,
	}, nil
}

// TTL returns the lifetime of tokens of type typ.
func (i *Issuer) TTL(typ models.TokenType) time.Duration {
	return i.ttl[typ]
}

// Issue signs a token of type typ for subject. Every token carries a fresh
// jti so two tokens issued in the same second still differ.
func (i *Issuer) Issue(subject string, typ models.TokenType) (string, time.Time, error) {
	ttl, ok := i.ttl[typ]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token type %q", typ)
	}

	now := i.now()
	expires := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Type: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses tokenString and checks its signature, expiry and issuer.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !models.TokenTypes.Contains(string(claims.Type)) {
		return nil, fmt.Errorf("invalid token: unknown type %q", claims.Type)
	}
	return &claims, nil
}
