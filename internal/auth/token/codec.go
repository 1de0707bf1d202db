// Package token signs and verifies the compact, expiring identity tokens
// used as bearer credentials. Tokens are stateless and self-verifying, so no
// server-side session table exists; compromise is bounded only by the TTL.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fundedhub/backend/internal/common/clock"
	commoncrypto "github.com/fundedhub/backend/internal/common/crypto"
	"github.com/fundedhub/backend/internal/observability/metrics"
)

// Verification failures are distinct internally for diagnostics but must be
// collapsed to one generic unauthorized response before reaching a client.
var (
	ErrMalformedToken    = errors.New("malformed token")
	ErrSignatureMismatch = errors.New("token signature mismatch")
	ErrExpiredToken      = errors.New("token expired")
	ErrMissingSubject    = errors.New("token missing subject claim")
)

type Codec struct {
	secret      []byte
	ttl         time.Duration
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewCodec(secret string, ttl time.Duration, idGenerator commoncrypto.IDGenerator, clk clock.Clock) *Codec {
	return &Codec{
		secret:      []byte(secret),
		ttl:         ttl,
		idGenerator: idGenerator,
		clock:       clk,
	}
}

// Issue mints a signed token for the subject with expiry now + ttl.
func (c *Codec) Issue(subject string) (string, time.Time, error) {
	jti, err := c.idGenerator.NewID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := c.clock.Now()
	expiresAt := now.Add(c.ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"jti": jti,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	metrics.AccessTokensIssued.Inc()
	return signed, expiresAt, nil
}

// Verify checks signature integrity first, then expiry, and returns the
// subject only if both pass. The signing method is pinned to HS256; a token
// claiming any other algorithm fails as a signature mismatch.
func (c *Codec) Verify(tokenString string) (string, error) {
	metrics.TokenVerificationsTotal.Inc()

	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrSignatureMismatch
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return "", c.classify(err)
	}
	if !parsed.Valid {
		return "", c.fail("signature_mismatch", ErrSignatureMismatch)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", c.fail("malformed", ErrMalformedToken)
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return "", c.fail("missing_subject", ErrMissingSubject)
	}

	return sub, nil
}

func (c *Codec) classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return c.fail("expired", ErrExpiredToken)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrSignatureMismatch):
		return c.fail("signature_mismatch", ErrSignatureMismatch)
	default:
		return c.fail("malformed", ErrMalformedToken)
	}
}

func (c *Codec) fail(reason string, err error) error {
	metrics.TokenVerificationsFailed.WithLabelValues(reason).Inc()
	return err
}
