package service

import (
	"context"
	"time"

	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/trading/terminal"
)

// Closed-trade history is fetched from this fixed epoch, far enough back to
// cover any account's lifetime.
var historyStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type TradeView struct {
	Ticket    int64   `json:"ticket"`
	Time      int64   `json:"time"`
	Date      string  `json:"date"`
	Type      int     `json:"type"`
	TradeType string  `json:"trade_type"`
	Volume    float64 `json:"volume"`
	Price     float64 `json:"price"`
	Profit    float64 `json:"profit"`
	Symbol    string  `json:"symbol"`
}

type Report struct {
	Account           terminal.AccountInfo `json:"account_details"`
	TotalClosedTrades int                  `json:"total_closed_trades"`
	Trades            []TradeView          `json:"trade_details"`
	DailyDrawdown     *float64             `json:"daily_drawdown"`
	TotalProfitLoss   float64              `json:"total_profit_loss"`
}

type TradingService struct {
	terminal terminal.Client
	clock    clock.Clock
	log      *logger.Logger
}

func NewTradingService(term terminal.Client, clk clock.Clock, log *logger.Logger) *TradingService {
	return &TradingService{terminal: term, clock: clk, log: log}
}

// AccountReport logs into the terminal and assembles account state, full
// closed-trade history and the daily drawdown figure.
func (s *TradingService) AccountReport(ctx context.Context, creds terminal.Credentials) (Report, error) {
	info, err := s.terminal.AccountInfo(ctx, creds)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action":  "terminal_account_failed",
			"account": creds.AccountNumber,
		}).Warnf("account info fetch failed: %v", err)
		return Report{}, err
	}

	now := s.clock.Now()
	deals, err := s.terminal.Deals(ctx, creds, historyStart, now)
	if err != nil {
		return Report{}, err
	}

	var totalPnL float64
	trades := make([]TradeView, 0, len(deals))
	for _, deal := range deals {
		totalPnL += deal.Profit
		trades = append(trades, toTradeView(deal))
	}

	report := Report{
		Account:           info,
		TotalClosedTrades: len(deals),
		Trades:            trades,
		DailyDrawdown:     DailyDrawdown(info.Equity, dealsSince(deals, startOfDay(now))),
		TotalProfitLoss:   totalPnL,
	}

	s.log.WithFields(ctx, logger.Fields{
		"action":  "terminal_report_built",
		"account": creds.AccountNumber,
		"trades":  len(deals),
	}).Info("account report built")

	return report, nil
}

func toTradeView(deal terminal.Deal) TradeView {
	tradeType := ""
	switch deal.Type {
	case 0:
		tradeType = "Buy"
	case 1:
		tradeType = "Sell"
	}

	return TradeView{
		Ticket:    deal.Ticket,
		Time:      deal.Time,
		Date:      time.Unix(deal.Time, 0).Format("2006-01-02"),
		Type:      deal.Type,
		TradeType: tradeType,
		Volume:    deal.Volume,
		Price:     deal.Price,
		Profit:    deal.Profit,
		Symbol:    deal.Symbol,
	}
}

// DailyDrawdown is the percentage drop from today's peak equity to current
// equity. Nil when there were no trades today or equity never fell below
// its peak.
func DailyDrawdown(currentEquity float64, tradesToday []terminal.Deal) *float64 {
	if len(tradesToday) == 0 {
		return nil
	}

	maxEquity := currentEquity
	for _, trade := range tradesToday {
		if peak := trade.Profit + currentEquity; peak > maxEquity {
			maxEquity = peak
		}
	}

	drawdown := (maxEquity - currentEquity) / maxEquity * 100
	if drawdown <= 0 {
		return nil
	}
	return &drawdown
}

func dealsSince(deals []terminal.Deal, cutoff time.Time) []terminal.Deal {
	var out []terminal.Deal
	for _, deal := range deals {
		if !time.Unix(deal.Time, 0).Before(cutoff) {
			out = append(out, deal)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
