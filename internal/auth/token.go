package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/liftlog/workout-api/internal/model"
)

// signingMethod is the only algorithm tokens are issued with or accepted in.
var signingMethod = jwt.SigningMethodHS256

// TokenConfig is the process-wide signing configuration. Build it once at
// startup with NewTokenConfig and hand copies to the Issuer and Verifier.
type TokenConfig struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenConfig copies secret so later changes to the caller's slice or
// string cannot affect signing.
func NewTokenConfig(secret string, ttl time.Duration) TokenConfig {
	return TokenConfig{secret: []byte(secret), ttl: ttl}
}

// TTL reports the lifetime of issued tokens.
func (c TokenConfig) TTL() time.Duration { return c.ttl }

// Claims is the token payload: the numeric user id plus the registered
// claims sub (username), iat and exp.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Issuer signs access tokens.
type Issuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewIssuer(cfg TokenConfig) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

// Issue builds and signs an HS256 token bound to u.
func (i *Issuer) Issue(u model.User) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.ttl)),
		},
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(i.cfg.secret)
}

// Verifier checks signature, algorithm and expiry of access tokens.
type Verifier struct {
	cfg    TokenConfig
	parser *jwt.Parser
}

func NewVerifier(cfg TokenConfig) *Verifier {
	return &Verifier{
		cfg: cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// ErrTokenExpired is wrapped together with ErrUnauthorizedRequest when a
// token was well formed and correctly signed but past its exp. It is meant
// for logs; clients only ever see ErrUnauthorizedRequest.
var ErrTokenExpired = errors.New("token expired")

// Verify parses raw and returns its claims. Every failure wraps
// ErrUnauthorizedRequest.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.cfg.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorizedRequest, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthorizedRequest, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrUnauthorizedRequest)
	}
	return claims, nil
}
