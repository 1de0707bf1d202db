// Package terminal talks to the trading terminal gateway, a sidecar that
// wraps the broker terminal API behind plain HTTP.
package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fundedhub/backend/internal/common/config"
	commonerrors "github.com/fundedhub/backend/internal/common/errors"
	"github.com/fundedhub/backend/internal/observability/metrics"
)

var (
	ErrLoginFailed = commonerrors.NewDomainError(
		"TERMINAL_LOGIN_FAILED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"terminal login failed, check credentials and server",
	)

	ErrGatewayUnavailable = commonerrors.NewDomainError(
		"TERMINAL_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusBadGateway,
		"trading terminal gateway unavailable",
	)
)

type Credentials struct {
	AccountNumber int64  `json:"account_number"`
	Password      string `json:"password"`
	Server        string `json:"server"`
}

type AccountInfo struct {
	Balance    float64 `json:"balance"`
	Equity     float64 `json:"equity"`
	Margin     float64 `json:"margin"`
	FreeMargin float64 `json:"free_margin"`
	Currency   string  `json:"currency"`
	Leverage   int64   `json:"leverage"`
	Name       string  `json:"name"`
}

// Deal is a closed trade as reported by the terminal. Type 0 is a buy,
// type 1 a sell.
type Deal struct {
	Ticket int64   `json:"ticket"`
	Time   int64   `json:"time"`
	Type   int     `json:"type"`
	Volume float64 `json:"volume"`
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
	Symbol string  `json:"symbol"`
}

type Client interface {
	AccountInfo(ctx context.Context, creds Credentials) (AccountInfo, error)
	Deals(ctx context.Context, creds Credentials, from, to time.Time) ([]Deal, error)
}

type GatewayClient struct {
	cfg        config.TerminalConfig
	httpClient *http.Client
}

func NewGatewayClient(cfg config.TerminalConfig) *GatewayClient {
	return &GatewayClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *GatewayClient) AccountInfo(ctx context.Context, creds Credentials) (AccountInfo, error) {
	var info AccountInfo
	if err := c.post(ctx, "/account", creds, &info); err != nil {
		return AccountInfo{}, err
	}
	return info, nil
}

type dealsRequest struct {
	Credentials
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type dealsResponse struct {
	Deals []Deal `json:"deals"`
}

func (c *GatewayClient) Deals(ctx context.Context, creds Credentials, from, to time.Time) ([]Deal, error) {
	req := dealsRequest{Credentials: creds, From: from.Unix(), To: to.Unix()}

	var resp dealsResponse
	if err := c.post(ctx, "/deals", req, &resp); err != nil {
		return nil, err
	}
	return resp.Deals, nil
}

func (c *GatewayClient) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.TerminalRequestsTotal.WithLabelValues("error").Inc()
		return ErrGatewayUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.TerminalRequestsTotal.WithLabelValues("rejected").Inc()
		return ErrLoginFailed
	case resp.StatusCode != http.StatusOK:
		metrics.TerminalRequestsTotal.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ErrGatewayUnavailable.WithCause(fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.TerminalRequestsTotal.WithLabelValues("error").Inc()
		return ErrGatewayUnavailable.WithCause(fmt.Errorf("failed to decode gateway response: %w", err))
	}

	metrics.TerminalRequestsTotal.WithLabelValues("ok").Inc()
	return nil
}
