package config

import (
	"fmt"
	"os"
	"time"

	"github.com/fundedhub/backend/internal/common/constants"
	commonerrors "github.com/fundedhub/backend/internal/common/errors"
)

// LoginIdentifier selects which unique attribute a deployment uses to look
// up users at login. Exactly one is active per deployment.
type LoginIdentifier string

const (
	LoginByUsername LoginIdentifier = "username"
	LoginByEmail    LoginIdentifier = "email"
)

type AppConfig struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	LoginIdentifier LoginIdentifier
	RequestTimeout  time.Duration

	SMTP     SMTPConfig
	LLM      LLMConfig
	Terminal TerminalConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

type LLMConfig struct {
	APIKey        string
	BaseURL       string
	GenerateModel string
	EmbedModel    string
	AskTimeout    time.Duration
}

type TerminalConfig struct {
	GatewayURL string
	Timeout    time.Duration
}

func Load() (AppConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return AppConfig{}, err
	}

	if len(jwtSecret) < constants.JWTSecretMinLength {
		return AppConfig{}, fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(jwtSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AppConfig{}, err
	}

	identifier, err := parseLoginIdentifier(getEnv("AUTH_LOGIN_IDENTIFIER", string(LoginByEmail)))
	if err != nil {
		return AppConfig{}, err
	}

	return AppConfig{
		HTTPPort:        getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:     databaseURL,
		JWTSecret:       jwtSecret,
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		LoginIdentifier: identifier,
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			From:     os.Getenv("SMTP_FROM"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		LLM: LLMConfig{
			APIKey:        os.Getenv("GOOGLE_API_KEY"),
			BaseURL:       getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			GenerateModel: getEnv("LLM_GENERATE_MODEL", "gemini-1.5-flash"),
			EmbedModel:    getEnv("LLM_EMBED_MODEL", "embedding-001"),
			AskTimeout:    getDurationEnv("LLM_ASK_TIMEOUT", constants.DefaultAskTimeout),
		},
		Terminal: TerminalConfig{
			GatewayURL: os.Getenv("TERMINAL_GATEWAY_URL"),
			Timeout:    getDurationEnv("TERMINAL_TIMEOUT", constants.DefaultTerminalTimeout),
		},
	}, nil
}

func parseLoginIdentifier(value string) (LoginIdentifier, error) {
	switch LoginIdentifier(value) {
	case LoginByUsername:
		return LoginByUsername, nil
	case LoginByEmail:
		return LoginByEmail, nil
	default:
		return "", fmt.Errorf("invalid AUTH_LOGIN_IDENTIFIER %q: must be %q or %q", value, LoginByUsername, LoginByEmail)
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
