package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fundedhub/backend/internal/bot/domain"
	"github.com/fundedhub/backend/internal/bot/service"
	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/logger"
	userdomain "github.com/fundedhub/backend/internal/user/domain"
)

type botRepoMock struct {
	createFunc      func(ctx context.Context, bot domain.Bot) error
	findByIDFunc    func(ctx context.Context, id domain.ID) (domain.Bot, error)
	listByOwnerFunc func(ctx context.Context, ownerID userdomain.ID) ([]domain.Bot, error)
	updateFunc      func(ctx context.Context, bot domain.Bot) error
	deleteFunc      func(ctx context.Context, id domain.ID) error
}

func (m *botRepoMock) Create(ctx context.Context, bot domain.Bot) error {
	return m.createFunc(ctx, bot)
}

func (m *botRepoMock) FindByID(ctx context.Context, id domain.ID) (domain.Bot, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *botRepoMock) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Bot, error) {
	return m.listByOwnerFunc(ctx, ownerID)
}

func (m *botRepoMock) Update(ctx context.Context, bot domain.Bot) error {
	return m.updateFunc(ctx, bot)
}

func (m *botRepoMock) Delete(ctx context.Context, id domain.ID) error {
	return m.deleteFunc(ctx, id)
}

type llmMock struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	embedFunc    func(ctx context.Context, texts []string) ([][]float64, error)
}

func (m *llmMock) Generate(ctx context.Context, prompt string) (string, error) {
	return m.generateFunc(ctx, prompt)
}

func (m *llmMock) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return m.embedFunc(ctx, texts)
}

type staticIDGenerator struct {
	id string
}

func (g *staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func setupBotService(repo *botRepoMock, llm *llmMock) *service.BotService {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "info")
	return service.NewBotService(repo, llm, &staticIDGenerator{id: "bot-1"}, mockClock, log)
}

func TestBotService_Create(t *testing.T) {
	var created domain.Bot
	repo := &botRepoMock{
		createFunc: func(_ context.Context, bot domain.Bot) error {
			created = bot
			return nil
		},
	}
	svc := setupBotService(repo, &llmMock{})

	bot, err := svc.Create(context.Background(), service.CreateInput{
		OwnerID:     "user-1",
		Name:        "Max",
		Description: "a coach",
		Tone:        "friendly",
		Personality: "patient",
		Document:    "some knowledge",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if bot.ID != "bot-1" {
		t.Errorf("expected generated id bot-1, got %s", bot.ID)
	}
	if created.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %s", created.OwnerID)
	}
	if created.Document != "some knowledge" {
		t.Errorf("expected document stored, got %q", created.Document)
	}
}

func TestBotService_Update_NotOwner(t *testing.T) {
	repo := &botRepoMock{
		findByIDFunc: func(context.Context, domain.ID) (domain.Bot, error) {
			return domain.Bot{ID: "bot-1", OwnerID: "user-1"}, nil
		},
	}
	svc := setupBotService(repo, &llmMock{})

	err := svc.Update(context.Background(), "bot-1", "user-2", service.UpdateInput{Name: "New"})
	if !errors.Is(err, service.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestBotService_Delete_NotOwner(t *testing.T) {
	repo := &botRepoMock{
		findByIDFunc: func(context.Context, domain.ID) (domain.Bot, error) {
			return domain.Bot{ID: "bot-1", OwnerID: "user-1"}, nil
		},
	}
	svc := setupBotService(repo, &llmMock{})

	err := svc.Delete(context.Background(), "bot-1", "user-2")
	if !errors.Is(err, service.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestBotService_Update_Owner(t *testing.T) {
	var updated domain.Bot
	repo := &botRepoMock{
		findByIDFunc: func(context.Context, domain.ID) (domain.Bot, error) {
			return domain.Bot{ID: "bot-1", OwnerID: "user-1", Name: "Old", Document: "doc"}, nil
		},
		updateFunc: func(_ context.Context, bot domain.Bot) error {
			updated = bot
			return nil
		},
	}
	svc := setupBotService(repo, &llmMock{})

	err := svc.Update(context.Background(), "bot-1", "user-1", service.UpdateInput{
		Name: "New", Description: "d", Tone: "t", Personality: "p",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New" {
		t.Errorf("expected updated name, got %s", updated.Name)
	}
	if updated.Document != "doc" {
		t.Errorf("document must survive an update, got %q", updated.Document)
	}
}

func TestBotService_Ask_SmallDocumentSkipsEmbedding(t *testing.T) {
	repo := &botRepoMock{
		findByIDFunc: func(context.Context, domain.ID) (domain.Bot, error) {
			return domain.Bot{
				ID: "bot-1", Name: "Max", Description: "a coach",
				Document: "short document",
			}, nil
		},
	}
	llm := &llmMock{
		generateFunc: func(_ context.Context, prompt string) (string, error) {
			if !strings.Contains(prompt, "short document") {
				t.Errorf("expected document in prompt:\n%s", prompt)
			}
			return "the answer", nil
		},
		embedFunc: func(context.Context, []string) ([][]float64, error) {
			t.Error("embed should not be called for a single-chunk document")
			return nil, nil
		},
	}
	svc := setupBotService(repo, llm)

	answer, err := svc.Ask(context.Background(), "bot-1", "a question", nil)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("expected answer, got %q", answer)
	}
}

func TestBotService_Ask_RanksChunksBySimilarity(t *testing.T) {
	// 8 chunks of filler; embeddings make chunk indexes 2, 4, 5, 7 closest
	// to the question vector.
	doc := strings.TrimSpace(strings.Repeat(strings.Repeat("w ", 250), 8))
	repo := &botRepoMock{
		findByIDFunc: func(context.Context, domain.ID) (domain.Bot, error) {
			return domain.Bot{ID: "bot-1", Name: "Max", Document: doc}, nil
		},
	}

	var embedded []string
	llm := &llmMock{
		embedFunc: func(_ context.Context, texts []string) ([][]float64, error) {
			embedded = texts
			vectors := make([][]float64, len(texts))
			vectors[0] = []float64{1, 0}
			for i := 1; i < len(texts); i++ {
				switch i - 1 {
				case 2, 4, 5, 7:
					vectors[i] = []float64{1, 0.1}
				default:
					vectors[i] = []float64{0, 1}
				}
			}
			return vectors, nil
		},
		generateFunc: func(_ context.Context, prompt string) (string, error) {
			return "ok", nil
		},
	}
	svc := setupBotService(repo, llm)

	if _, err := svc.Ask(context.Background(), "bot-1", "a question", nil); err != nil {
		t.Fatalf("ask: %v", err)
	}

	if len(embedded) == 0 {
		t.Fatal("expected embedding call")
	}
	if embedded[0] != "a question" {
		t.Errorf("expected question embedded first, got %q", embedded[0])
	}
}

func TestBotService_Ask_GenerateFailure(t *testing.T) {
	repo := &botRepoMock{
		findByIDFunc: func(context.Context, domain.ID) (domain.Bot, error) {
			return domain.Bot{ID: "bot-1", Document: "short"}, nil
		},
	}
	llm := &llmMock{
		generateFunc: func(context.Context, string) (string, error) {
			return "", errors.New("provider down")
		},
	}
	svc := setupBotService(repo, llm)

	_, err := svc.Ask(context.Background(), "bot-1", "a question", nil)
	if !errors.Is(err, service.ErrAnswerFailed) {
		t.Errorf("expected ErrAnswerFailed, got %v", err)
	}
}

func TestBotService_Ask_BotNotFound(t *testing.T) {
	notFound := errors.New("not found")
	repo := &botRepoMock{
		findByIDFunc: func(context.Context, domain.ID) (domain.Bot, error) {
			return domain.Bot{}, notFound
		},
	}
	svc := setupBotService(repo, &llmMock{})

	_, err := svc.Ask(context.Background(), "missing", "a question", nil)
	if !errors.Is(err, notFound) {
		t.Errorf("expected repository error to pass through, got %v", err)
	}
}
