package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fundedhub/backend/internal/auth/service"
	"github.com/fundedhub/backend/internal/auth/token"
	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/config"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/user/domain"
	userrepo "github.com/fundedhub/backend/internal/user/repository"
)

type userRepoMock struct {
	createFunc         func(ctx context.Context, user domain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (domain.User, error)
	findByIDFunc       func(ctx context.Context, id domain.ID) (domain.User, error)
}

func (m *userRepoMock) Create(ctx context.Context, user domain.User) error {
	return m.createFunc(ctx, user)
}

func (m *userRepoMock) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.findByUsernameFunc(ctx, username)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *userRepoMock) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return m.findByIDFunc(ctx, id)
}

type hasherMock struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
	hashCalls   int
}

func (m *hasherMock) Hash(password string) (string, error) {
	m.hashCalls++
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *hasherMock) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type seqIDGenerator struct {
	next int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

const testSecret = "test-secret-key-at-least-32-bytes-long"

func setupAuthService(repo *userRepoMock, hasher *hasherMock, identifier config.LoginIdentifier) (*service.AuthService, *clock.MockClock) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "info")
	idGen := &seqIDGenerator{}
	codec := token.NewCodec(testSecret, 30*time.Minute, idGen, mockClock)
	return service.NewAuthService(repo, hasher, codec, idGen, mockClock, identifier, log), mockClock
}

func TestAuthService_Signup_Success(t *testing.T) {
	var created domain.User
	repo := &userRepoMock{
		createFunc: func(_ context.Context, user domain.User) error {
			created = user
			return nil
		},
	}
	hasher := &hasherMock{}
	svc, mockClock := setupAuthService(repo, hasher, config.LoginByEmail)

	user, err := svc.Signup(context.Background(), service.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Country:  "NL",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("expected username alice, got %s", user.Username)
	}
	if created.PasswordHash != "hashed:password123" {
		t.Errorf("expected stored hash, got %s", created.PasswordHash)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if !created.CreatedAt.Equal(mockClock.Now()) {
		t.Errorf("expected created_at %v, got %v", mockClock.Now(), created.CreatedAt)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	repo := &userRepoMock{
		createFunc: func(context.Context, domain.User) error {
			return userrepo.ErrUserAlreadyExists
		},
	}
	svc, _ := setupAuthService(repo, &hasherMock{}, config.LoginByEmail)

	_, err := svc.Signup(context.Background(), service.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrDuplicateIdentity) {
		t.Errorf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthService_Login_UnknownIdentifier(t *testing.T) {
	repo := &userRepoMock{
		findByEmailFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{}, userrepo.ErrUserNotFound
		},
	}
	hasher := &hasherMock{}
	svc, _ := setupAuthService(repo, hasher, config.LoginByEmail)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Identifier: "nobody@example.com",
		Password:   "password123",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if hasher.hashCalls != 1 {
		t.Errorf("expected one dummy hash for timing parity, got %d", hasher.hashCalls)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := &userRepoMock{
		findByEmailFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-1", PasswordHash: "hashed:correct"}, nil
		},
	}
	svc, _ := setupAuthService(repo, &hasherMock{}, config.LoginByEmail)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Identifier: "alice@example.com",
		Password:   "wrong-password",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_FailureErrorsIndistinguishable(t *testing.T) {
	unknownRepo := &userRepoMock{
		findByEmailFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{}, userrepo.ErrUserNotFound
		},
	}
	wrongPwRepo := &userRepoMock{
		findByEmailFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-1", PasswordHash: "hashed:correct"}, nil
		},
	}

	svcUnknown, _ := setupAuthService(unknownRepo, &hasherMock{}, config.LoginByEmail)
	svcWrongPw, _ := setupAuthService(wrongPwRepo, &hasherMock{}, config.LoginByEmail)

	_, errUnknown := svcUnknown.Login(context.Background(), service.LoginInput{
		Identifier: "nobody@example.com",
		Password:   "whatever1",
	})
	_, errWrongPw := svcWrongPw.Login(context.Background(), service.LoginInput{
		Identifier: "alice@example.com",
		Password:   "whatever2",
	})

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("expected both logins to fail")
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("failure messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := &userRepoMock{
		findByEmailFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-1", PasswordHash: "hashed:password123"}, nil
		},
	}
	svc, mockClock := setupAuthService(repo, &hasherMock{}, config.LoginByEmail)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if result.AccessToken == "" {
		t.Error("expected access token")
	}
	if result.TokenType != "bearer" {
		t.Errorf("expected token type bearer, got %s", result.TokenType)
	}
	if want := mockClock.Now().Add(30 * time.Minute); !result.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, result.ExpiresAt)
	}
}

func TestAuthService_Login_ByUsernameMode(t *testing.T) {
	lookedUp := ""
	repo := &userRepoMock{
		findByUsernameFunc: func(_ context.Context, username string) (domain.User, error) {
			lookedUp = username
			return domain.User{ID: "user-1", PasswordHash: "hashed:password123"}, nil
		},
	}
	svc, _ := setupAuthService(repo, &hasherMock{}, config.LoginByUsername)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Identifier: "alice",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if lookedUp != "alice" {
		t.Errorf("expected username lookup, got %q", lookedUp)
	}
}

func TestAuthService_Refresh_IssuesLaterExpiry(t *testing.T) {
	repo := &userRepoMock{
		findByEmailFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-1", PasswordHash: "hashed:password123"}, nil
		},
	}
	svc, mockClock := setupAuthService(repo, &hasherMock{}, config.LoginByEmail)

	first, err := svc.Login(context.Background(), service.LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mockClock.Advance(10 * time.Minute)

	second, err := svc.Refresh(context.Background(), domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if !second.ExpiresAt.After(first.ExpiresAt) {
		t.Errorf("expected refreshed expiry %v after original %v", second.ExpiresAt, first.ExpiresAt)
	}
}
