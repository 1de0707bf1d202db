package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/fundedhub/backend/internal/bot/domain"
	commonerrors "github.com/fundedhub/backend/internal/common/errors"
	userdomain "github.com/fundedhub/backend/internal/user/domain"
)

var ErrBotNotFound = commonerrors.ErrBotNotFound

type Repository interface {
	Create(ctx context.Context, bot domain.Bot) error
	FindByID(ctx context.Context, id domain.ID) (domain.Bot, error)
	ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Bot, error)
	Update(ctx context.Context, bot domain.Bot) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, bot domain.Bot) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO bots (id, owner_id, name, description, tone, personality, document, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(bot.ID),
		string(bot.OwnerID),
		bot.Name,
		bot.Description,
		bot.Tone,
		bot.Personality,
		bot.Document,
		bot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Bot, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, owner_id, name, description, tone, personality, document, created_at
		 FROM bots WHERE id = $1`,
		string(id),
	)

	var bot domain.Bot
	err := row.Scan(
		&bot.ID,
		&bot.OwnerID,
		&bot.Name,
		&bot.Description,
		&bot.Tone,
		&bot.Personality,
		&bot.Document,
		&bot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bot{}, ErrBotNotFound
		}
		return domain.Bot{}, fmt.Errorf("failed to find bot: %w", err)
	}

	return bot, nil
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Bot, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, owner_id, name, description, tone, personality, document, created_at
		 FROM bots WHERE owner_id = $1 ORDER BY created_at DESC`,
		string(ownerID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}
	defer rows.Close()

	var bots []domain.Bot
	for rows.Next() {
		var bot domain.Bot
		if err := rows.Scan(
			&bot.ID,
			&bot.OwnerID,
			&bot.Name,
			&bot.Description,
			&bot.Tone,
			&bot.Personality,
			&bot.Document,
			&bot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bot: %w", err)
		}
		bots = append(bots, bot)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return bots, nil
}

func (r *PgRepository) Update(ctx context.Context, bot domain.Bot) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE bots SET name = $1, description = $2, tone = $3, personality = $4 WHERE id = $5`,
		bot.Name,
		bot.Description,
		bot.Tone,
		bot.Personality,
		string(bot.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update bot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBotNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bots WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete bot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBotNotFound
	}
	return nil
}
