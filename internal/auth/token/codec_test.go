package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fundedhub/backend/internal/auth/token"
	"github.com/fundedhub/backend/internal/common/clock"
)

const testSecret = "test-secret-key-at-least-32-bytes-long"

type staticIDGenerator struct {
	id string
}

func (g *staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func setupCodec(t *testing.T, ttl time.Duration) (*token.Codec, *clock.MockClock) {
	_ = t
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	codec := token.NewCodec(testSecret, ttl, &staticIDGenerator{id: "jti-1"}, mockClock)
	return codec, mockClock
}

func TestCodec_IssueVerify_Roundtrip(t *testing.T) {
	codec, mockClock := setupCodec(t, 30*time.Minute)

	signed, expiresAt, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if want := mockClock.Now().Add(30 * time.Minute); !expiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, expiresAt)
	}

	subject, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", subject)
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	codec, mockClock := setupCodec(t, 30*time.Minute)

	signed, _, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mockClock.Advance(30*time.Minute + time.Second)

	_, err = codec.Verify(signed)
	if !errors.Is(err, token.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestCodec_Verify_ZeroTTL(t *testing.T) {
	codec, _ := setupCodec(t, 0)

	signed, _, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = codec.Verify(signed)
	if !errors.Is(err, token.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken for zero ttl, got %v", err)
	}
}

func TestCodec_Verify_ValidJustBeforeExpiry(t *testing.T) {
	codec, mockClock := setupCodec(t, 30*time.Minute)

	signed, _, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mockClock.Advance(30*time.Minute - time.Second)

	if _, err := codec.Verify(signed); err != nil {
		t.Errorf("expected token still valid, got %v", err)
	}
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	codec, _ := setupCodec(t, 30*time.Minute)

	signed, _, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := token.NewCodec(
		"another-secret-key-also-32-bytes-long!",
		30*time.Minute,
		&staticIDGenerator{id: "jti-2"},
		clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	)

	_, err = other.Verify(signed)
	if !errors.Is(err, token.ErrSignatureMismatch) {
		t.Errorf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestCodec_Verify_Garbage(t *testing.T) {
	codec, _ := setupCodec(t, 30*time.Minute)

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := codec.Verify(input); !errors.Is(err, token.ErrMalformedToken) {
			t.Errorf("input %q: expected ErrMalformedToken, got %v", input, err)
		}
	}
}

func TestCodec_Verify_MissingSubject(t *testing.T) {
	codec, _ := setupCodec(t, 30*time.Minute)

	signed, _, err := codec.Issue("")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = codec.Verify(signed)
	if !errors.Is(err, token.ErrMissingSubject) {
		t.Errorf("expected ErrMissingSubject, got %v", err)
	}
}

func TestCodec_Verify_TamperedPayload(t *testing.T) {
	codec, _ := setupCodec(t, 30*time.Minute)

	signed, _, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tampered := signed[:len(signed)-4] + "AAAA"

	_, err = codec.Verify(tampered)
	if err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
	if errors.Is(err, token.ErrExpiredToken) || errors.Is(err, token.ErrMissingSubject) {
		t.Errorf("tampered token misclassified: %v", err)
	}
}
