package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/order/domain"
	orderrepo "github.com/fundedhub/backend/internal/order/repository"
	"github.com/fundedhub/backend/internal/order/service"
)

type orderRepoMock struct {
	createFunc       func(ctx context.Context, order domain.Order) (int64, error)
	findByIDFunc     func(ctx context.Context, id int64) (domain.Order, error)
	updateStatusFunc func(ctx context.Context, id int64, status domain.Status) error
}

func (m *orderRepoMock) Create(ctx context.Context, order domain.Order) (int64, error) {
	return m.createFunc(ctx, order)
}

func (m *orderRepoMock) FindByID(ctx context.Context, id int64) (domain.Order, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	return m.updateStatusFunc(ctx, id, status)
}

type notifierMock struct {
	sendFunc func(ctx context.Context, to, subject, body string) error
	sent     []string
}

func (m *notifierMock) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, to)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, to, subject, body)
	}
	return nil
}

func setupOrderService(repo *orderRepoMock, notifier *notifierMock) *service.OrderService {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "info")
	return service.NewOrderService(repo, notifier, mockClock, log)
}

func TestOrderService_Create_SendsConfirmation(t *testing.T) {
	var created domain.Order
	repo := &orderRepoMock{
		createFunc: func(_ context.Context, order domain.Order) (int64, error) {
			created = order
			return 7, nil
		},
	}
	var gotSubject, gotBody string
	notifier := &notifierMock{
		sendFunc: func(_ context.Context, _, subject, body string) error {
			gotSubject = subject
			gotBody = body
			return nil
		},
	}
	svc := setupOrderService(repo, notifier)

	result, err := svc.Create(context.Background(), service.CreateInput{
		Username:      "alice",
		Email:         "alice@example.com",
		ChallengeType: "two-step",
		AccountSize:   "100k",
		Platform:      "mt5",
		PaymentMethod: "usdt",
		TxID:          "0xabc",
		PaymentProof:  []byte{0xFF, 0xD8},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if result.PublicID != "FDH7" {
		t.Errorf("expected public id FDH7, got %s", result.PublicID)
	}
	if created.Status != domain.StatusPending {
		t.Errorf("expected new order pending, got %s", created.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "alice@example.com" {
		t.Errorf("expected one email to alice@example.com, got %v", notifier.sent)
	}
	if gotSubject != "Order Created Successfully" {
		t.Errorf("unexpected subject: %s", gotSubject)
	}
	if !strings.Contains(gotBody, "FDH7") {
		t.Errorf("expected order id in body:\n%s", gotBody)
	}
}

func TestOrderService_Create_EmailFailureDoesNotFailOrder(t *testing.T) {
	repo := &orderRepoMock{
		createFunc: func(context.Context, domain.Order) (int64, error) {
			return 8, nil
		},
	}
	notifier := &notifierMock{
		sendFunc: func(context.Context, string, string, string) error {
			return errors.New("smtp down")
		},
	}
	svc := setupOrderService(repo, notifier)

	result, err := svc.Create(context.Background(), service.CreateInput{
		Username: "alice",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("expected order to succeed despite email failure, got %v", err)
	}
	if result.PublicID != "FDH8" {
		t.Errorf("expected FDH8, got %s", result.PublicID)
	}
}

func TestOrderService_Create_RepoFailure(t *testing.T) {
	repoErr := errors.New("insert failed")
	repo := &orderRepoMock{
		createFunc: func(context.Context, domain.Order) (int64, error) {
			return 0, repoErr
		},
	}
	notifier := &notifierMock{}
	svc := setupOrderService(repo, notifier)

	_, err := svc.Create(context.Background(), service.CreateInput{Username: "alice"})
	if !errors.Is(err, repoErr) {
		t.Errorf("expected repo error, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Error("no email should be sent when the order is not persisted")
	}
}

func TestOrderService_Get_AcceptsPublicAndBareIDs(t *testing.T) {
	repo := &orderRepoMock{
		findByIDFunc: func(_ context.Context, id int64) (domain.Order, error) {
			if id != 42 {
				t.Errorf("expected lookup of 42, got %d", id)
			}
			return domain.Order{ID: 42, Username: "alice"}, nil
		},
	}
	svc := setupOrderService(repo, &notifierMock{})

	for _, input := range []string{"FDH42", "42"} {
		order, err := svc.Get(context.Background(), input)
		if err != nil {
			t.Fatalf("get %q: %v", input, err)
		}
		if order.ID != 42 {
			t.Errorf("get %q: expected order 42, got %d", input, order.ID)
		}
	}
}

func TestOrderService_Get_InvalidID(t *testing.T) {
	svc := setupOrderService(&orderRepoMock{}, &notifierMock{})

	_, err := svc.Get(context.Background(), "not-an-id")
	if !errors.Is(err, orderrepo.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	var gotID int64
	var gotStatus domain.Status
	repo := &orderRepoMock{
		updateStatusFunc: func(_ context.Context, id int64, status domain.Status) error {
			gotID = id
			gotStatus = status
			return nil
		},
	}
	svc := setupOrderService(repo, &notifierMock{})

	if err := svc.UpdateStatus(context.Background(), "FDH9", domain.StatusPaid); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if gotID != 9 || gotStatus != domain.StatusPaid {
		t.Errorf("expected update of 9 to paid, got %d %s", gotID, gotStatus)
	}
}
