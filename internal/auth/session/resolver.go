// Package session resolves the authenticated principal for a request from
// its bearer token. Resolution is read-only: it never refreshes or extends
// a token as a side effect.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	commonhttp "github.com/fundedhub/backend/internal/common/http"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/user/domain"
	userrepo "github.com/fundedhub/backend/internal/user/repository"
)

// Internal rejection reasons. All of them surface to the client as the same
// generic 401; only logs distinguish them.
var (
	ErrMissingCredential = errors.New("missing bearer credential")
	ErrInvalidCredential = errors.New("invalid bearer credential")
	ErrPrincipalNotFound = errors.New("principal no longer exists")
)

type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type Resolver struct {
	codec TokenVerifier
	users userrepo.Repository
	log   *logger.Logger
}

func NewResolver(codec TokenVerifier, users userrepo.Repository, log *logger.Logger) *Resolver {
	return &Resolver{codec: codec, users: users, log: log}
}

// Resolve verifies the bearer token and looks up the referenced principal.
// The PrincipalNotFound case covers a user deleted after token issuance.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (domain.User, error) {
	if bearer == "" {
		return domain.User{}, ErrMissingCredential
	}

	subject, err := r.codec.Verify(bearer)
	if err != nil {
		r.log.WithFields(ctx, logger.Fields{
			"action": "session_token_rejected",
			"reason": err.Error(),
		}).Warn("session resolution failed: invalid token")
		return domain.User{}, ErrInvalidCredential
	}

	user, err := r.users.FindByID(ctx, domain.ID(subject))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			r.log.WithFields(ctx, logger.Fields{
				"action":  "session_principal_not_found",
				"subject": subject,
			}).Warn("session resolution failed: principal not found")
			return domain.User{}, ErrPrincipalNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

type principalKeyType struct{}

var principalKey principalKeyType

// Middleware rejects requests without a resolvable principal and attaches
// the resolved User to the request context for downstream handlers.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		bearer := ExtractBearer(req)
		if bearer == "" {
			r.log.Warnf("auth failed path=%s: missing or invalid authorization header", req.URL.Path)
			commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "unauthorized", "")
			return
		}

		user, err := r.Resolve(req.Context(), bearer)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingCredential),
				errors.Is(err, ErrInvalidCredential),
				errors.Is(err, ErrPrincipalNotFound):
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "unauthorized", "")
			default:
				// store failure, not the caller's fault
				commonhttp.HandleError(w, req, err, r.log)
			}
			return
		}

		ctx := context.WithValue(req.Context(), principalKey, user)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func ExtractBearer(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(raw, "Bearer ")
}

// PrincipalFromContext returns the User attached by Middleware.
func PrincipalFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(principalKey).(domain.User)
	return user, ok
}
