package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const bearerPrefix = "bearer "

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Gate turns an Authorization header into an Identity. Steps run in order
// and the first failure is final:
//
//  1. extract the bearer token        -> ErrMissingBearerToken
//  2. verify signature and algorithm  -> ErrUnauthorizedRequest
//  3. check expiry                    -> ErrUnauthorizedRequest
//  4. resolve sub against the store   -> ErrUnauthorizedRequest
//
// Only step 4 does I/O.
type Gate struct {
	verifier *Verifier
	users    UserFinder
}

func NewGate(v *Verifier, users UserFinder) *Gate {
	return &Gate{verifier: v, users: users}
}

// Authenticate runs the pipeline for one request. Errors other than the two
// gate sentinels are store faults (or ctx cancellation) and must not be
// reported as authentication failures.
func (g *Gate) Authenticate(ctx context.Context, header string) (Identity, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return Identity{}, ErrMissingBearerToken
	}

	claims, err := g.verifier.Verify(raw)
	if err != nil {
		return Identity{}, err
	}

	u, err := g.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Identity{}, fmt.Errorf("%w: unknown subject", ErrUnauthorizedRequest)
		}
		return Identity{}, fmt.Errorf("resolve token subject: %w", err)
	}
	// A username freed and re-registered gets a new id; old tokens must
	// not carry over to the new account.
	if u.ID != claims.UserID {
		return Identity{}, fmt.Errorf("%w: user id mismatch", ErrUnauthorizedRequest)
	}

	return Identity{ID: u.ID, Username: u.Username}, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}
