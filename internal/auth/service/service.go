package service

import (
	"context"
	"errors"
	"time"

	"github.com/fundedhub/backend/internal/auth/token"
	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/config"
	commoncrypto "github.com/fundedhub/backend/internal/common/crypto"
	commonerrors "github.com/fundedhub/backend/internal/common/errors"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/observability/metrics"
	"github.com/fundedhub/backend/internal/user/domain"
	userrepo "github.com/fundedhub/backend/internal/user/repository"
)

type AuthService struct {
	users      userrepo.Repository
	hasher     commoncrypto.PasswordHasher
	codec      *token.Codec
	idGen      commoncrypto.IDGenerator
	clock      clock.Clock
	identifier config.LoginIdentifier
	log        *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	codec *token.Codec,
	idGen commoncrypto.IDGenerator,
	clk clock.Clock,
	identifier config.LoginIdentifier,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		codec:      codec,
		idGen:      idGen,
		clock:      clk,
		identifier: identifier,
		log:        log,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Phone    string
	Country  string
	Address  string
}

type LoginInput struct {
	Identifier string
	Password   string
}

type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

const tokenType = "bearer"

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (domain.PublicUser, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "signup_attempt",
	}).Info("signup attempt")

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return domain.PublicUser{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return domain.PublicUser{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Phone:        input.Phone,
		Country:      input.Country,
		Address:      input.Address,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUserAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "signup_duplicate",
			}).Warn("signup failed: already registered")
			return domain.PublicUser{}, ErrDuplicateIdentity
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return domain.PublicUser{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.SignupsTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "signup_success",
	}).Info("signup success")

	return user.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (TokenResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.findByIdentifier(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			// Hash the candidate anyway so response timing does not reveal
			// whether the identifier exists.
			_, _ = s.hasher.Hash(input.Password)
			metrics.LoginFailuresTotal.Inc()
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_identifier_unknown",
			}).Warn("login failed: unknown identifier")
			return TokenResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return TokenResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		metrics.LoginFailuresTotal.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return TokenResult{}, ErrInvalidCredentials
	}

	return s.mint(ctx, user, "login_success")
}

// Refresh mints a new token for an already-resolved principal; the caller
// proves possession of a valid token through the session resolver, so no
// password is re-checked here.
func (s *AuthService) Refresh(ctx context.Context, principal domain.User) (TokenResult, error) {
	return s.mint(ctx, principal, "refresh_success")
}

func (s *AuthService) mint(ctx context.Context, user domain.User, action string) (TokenResult, error) {
	accessToken, expiresAt, err := s.codec.Issue(string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "token_issue_failed",
		}).Errorf("token issue error: %v", err)
		return TokenResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  action,
	}).Info(action)

	return TokenResult{
		AccessToken: accessToken,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	if s.identifier == config.LoginByEmail {
		return s.users.FindByEmail(ctx, identifier)
	}
	return s.users.FindByUsername(ctx, identifier)
}
