package service

import (
	"context"
	"math"
	"net/http"
	"sort"

	"github.com/fundedhub/backend/internal/bot/domain"
	"github.com/fundedhub/backend/internal/bot/llm"
	botrepo "github.com/fundedhub/backend/internal/bot/repository"
	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/constants"
	commoncrypto "github.com/fundedhub/backend/internal/common/crypto"
	commonerrors "github.com/fundedhub/backend/internal/common/errors"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/observability/metrics"
	userdomain "github.com/fundedhub/backend/internal/user/domain"
)

// ErrNotOwner rejects mutation of a bot by anyone but its creator.
var ErrNotOwner = commonerrors.NewDomainError(
	"NOT_BOT_OWNER",
	commonerrors.CategoryUnauthorized,
	http.StatusForbidden,
	"not the owner of this chatbot",
)

var ErrAnswerFailed = commonerrors.NewDomainError(
	"ANSWER_FAILED",
	commonerrors.CategoryExternal,
	http.StatusBadGateway,
	"failed to generate an answer",
)

type BotService struct {
	repo  botrepo.Repository
	llm   llm.Client
	idGen commoncrypto.IDGenerator
	clock clock.Clock
	log   *logger.Logger
}

func NewBotService(repo botrepo.Repository, llmClient llm.Client, idGen commoncrypto.IDGenerator, clk clock.Clock, log *logger.Logger) *BotService {
	return &BotService{
		repo:  repo,
		llm:   llmClient,
		idGen: idGen,
		clock: clk,
		log:   log,
	}
}

type CreateInput struct {
	OwnerID     userdomain.ID
	Name        string
	Description string
	Tone        string
	Personality string
	Document    string
}

func (s *BotService) Create(ctx context.Context, input CreateInput) (domain.Bot, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return domain.Bot{}, commonerrors.ErrInternalError.WithCause(err)
	}

	bot := domain.Bot{
		ID:          domain.ID(id),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		Tone:        input.Tone,
		Personality: input.Personality,
		Document:    input.Document,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Create(ctx, bot); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "bot_create_failed",
		}).Errorf("bot create failed: %v", err)
		return domain.Bot{}, err
	}

	metrics.BotsCreatedTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"bot_id": string(bot.ID),
		"action": "bot_created",
	}).Info("bot created")

	return bot, nil
}

func (s *BotService) Get(ctx context.Context, id domain.ID) (domain.Bot, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BotService) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Bot, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

type UpdateInput struct {
	Name        string
	Description string
	Tone        string
	Personality string
}

func (s *BotService) Update(ctx context.Context, id domain.ID, actor userdomain.ID, input UpdateInput) error {
	bot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bot.OwnerID != actor {
		return ErrNotOwner
	}

	bot.Name = input.Name
	bot.Description = input.Description
	bot.Tone = input.Tone
	bot.Personality = input.Personality

	return s.repo.Update(ctx, bot)
}

func (s *BotService) Delete(ctx context.Context, id domain.ID, actor userdomain.ID) error {
	bot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bot.OwnerID != actor {
		return ErrNotOwner
	}

	return s.repo.Delete(ctx, id)
}

// Ask answers a question in the bot's persona. The knowledge document is
// split into overlapping chunks; the question and chunks are embedded, the
// closest chunks by cosine similarity become the prompt context.
func (s *BotService) Ask(ctx context.Context, id domain.ID, question string, history []domain.Exchange) (string, error) {
	bot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	metrics.BotQuestionsTotal.Inc()
	timer := s.clock.Now()

	contextChunks, err := s.selectContext(ctx, bot.Document, question)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"bot_id": string(id),
			"action": "bot_context_failed",
		}).Errorf("context selection failed: %v", err)
		return "", ErrAnswerFailed.WithCause(err)
	}

	prompt := BuildPrompt(bot.Persona(), contextChunks, history, question)

	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"bot_id": string(id),
			"action": "bot_generate_failed",
		}).Errorf("answer generation failed: %v", err)
		return "", ErrAnswerFailed.WithCause(err)
	}

	metrics.BotAnswerDurationSeconds.Observe(s.clock.Since(timer).Seconds())
	s.log.WithFields(ctx, logger.Fields{
		"bot_id": string(id),
		"action": "bot_answered",
	}).Info("bot answered question")

	return answer, nil
}

func (s *BotService) selectContext(ctx context.Context, document, question string) ([]string, error) {
	chunks := SplitText(document, constants.BotChunkSize, constants.BotChunkOverlap)
	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) <= constants.BotContextChunks {
		return chunks, nil
	}

	vectors, err := s.llm.Embed(ctx, append([]string{question}, chunks...))
	if err != nil {
		return nil, err
	}

	questionVec := vectors[0]
	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(chunks))
	for i := range chunks {
		ranked[i] = scored{index: i, score: CosineSimilarity(questionVec, vectors[i+1])}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	top := ranked[:constants.BotContextChunks]
	// preserve document order so the context reads coherently
	sort.Slice(top, func(i, j int) bool { return top[i].index < top[j].index })

	selected := make([]string, len(top))
	for i, r := range top {
		selected[i] = chunks[r.index]
	}
	return selected, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors, or
// 0 for mismatched or zero-length input.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
