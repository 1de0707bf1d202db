package service

import (
	"context"
	"fmt"

	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/notify"
	"github.com/fundedhub/backend/internal/observability/metrics"
	"github.com/fundedhub/backend/internal/order/domain"
	orderrepo "github.com/fundedhub/backend/internal/order/repository"
)

type OrderService struct {
	repo     orderrepo.Repository
	notifier notify.Notifier
	clock    clock.Clock
	log      *logger.Logger
}

func NewOrderService(repo orderrepo.Repository, notifier notify.Notifier, clk clock.Clock, log *logger.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		log:      log,
	}
}

type CreateInput struct {
	Username      string
	Email         string
	ChallengeType string
	AccountSize   string
	Platform      string
	PaymentMethod string
	TxID          string
	PaymentProof  []byte
}

type CreateResult struct {
	PublicID string
}

func (s *OrderService) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	order := domain.Order{
		Username:      input.Username,
		Email:         input.Email,
		ChallengeType: input.ChallengeType,
		AccountSize:   input.AccountSize,
		Platform:      input.Platform,
		PaymentMethod: input.PaymentMethod,
		TxID:          input.TxID,
		PaymentProof:  input.PaymentProof,
		Status:        domain.StatusPending,
		CreatedAt:     s.clock.Now(),
	}

	id, err := s.repo.Create(ctx, order)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "order_create_failed",
		}).Errorf("order create failed: %v", err)
		return CreateResult{}, err
	}
	order.ID = id

	metrics.OrdersCreatedTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"order_id": order.PublicID(),
		"action":   "order_created",
	}).Info("order created")

	// Email delivery is best effort: the order is already persisted and a
	// failed notification must not fail the request.
	subject := "Order Created Successfully"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour order has been created successfully.\n\nOrder ID: %s\n\nThank you for your purchase!",
		order.Username, order.PublicID(),
	)
	if err := s.notifier.Send(ctx, order.Email, subject, body); err != nil {
		metrics.OrderEmailsFailedTotal.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"order_id": order.PublicID(),
			"action":   "order_email_failed",
		}).Errorf("order confirmation email failed: %v", err)
	} else {
		metrics.OrderEmailsSentTotal.Inc()
	}

	return CreateResult{PublicID: order.PublicID()}, nil
}

func (s *OrderService) Get(ctx context.Context, publicID string) (domain.Order, error) {
	id, err := domain.ParsePublicID(publicID)
	if err != nil {
		return domain.Order{}, orderrepo.ErrOrderNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, publicID string, status domain.Status) error {
	id, err := domain.ParsePublicID(publicID)
	if err != nil {
		return orderrepo.ErrOrderNotFound
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"order_id": publicID,
		"status":   string(status),
		"action":   "order_status_updated",
	}).Info("order status updated")
	return nil
}
