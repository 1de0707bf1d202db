package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fundedhub/backend/internal/auth/service"
	"github.com/fundedhub/backend/internal/auth/session"
	"github.com/fundedhub/backend/internal/common/config"
	commonhttp "github.com/fundedhub/backend/internal/common/http"
	"github.com/fundedhub/backend/internal/common/logger"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=128"`
	Phone    string `json:"phone" validate:"max=32"`
	Country  string `json:"country" validate:"max=64"`
	Address  string `json:"address" validate:"max=256"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Handler struct {
	auth     *service.AuthService
	resolver *session.Resolver
	validate *validator.Validate
	cfg      config.AppConfig
	log      *logger.Logger
}

func NewHandler(auth *service.AuthService, resolver *session.Resolver, cfg config.AppConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:     auth,
		resolver: resolver,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cfg:      cfg,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signup",
		commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.signup)))
	mux.HandleFunc("/api/auth/login",
		commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.login)))
	mux.Handle("/api/auth/refresh",
		resolver.Middleware(commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(cfg.RequestTimeout)(h.refresh))))
	return mux
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signup failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		commonhttp.HandleError(w, r, service.ErrValidation.WithCause(describeValidationError(err)), h.log)
		return
	}

	user, err := h.auth.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Country:  req.Country,
		Address:  req.Address,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		// A malformed login still answers with the generic credential error
		// so request shape reveals nothing about registered accounts.
		commonhttp.HandleError(w, r, service.ErrInvalidCredentials, h.log)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "unauthorized", "")
		return
	}

	result, err := h.auth.Refresh(r.Context(), principal)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
	})
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("field %q failed on %q", fe.Field(), fe.Tag())
	}
	return err
}
