package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commonerrors "github.com/fundedhub/backend/internal/common/errors"
	"github.com/fundedhub/backend/internal/order/domain"
)

var ErrOrderNotFound = commonerrors.ErrOrderNotFound

type Repository interface {
	Create(ctx context.Context, order domain.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, order domain.Order) (int64, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO orders (username, email, challenge_type, account_size, platform, payment_method, txid, payment_proof, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		order.Username,
		order.Email,
		order.ChallengeType,
		order.AccountSize,
		order.Platform,
		order.PaymentMethod,
		order.TxID,
		order.PaymentProof,
		string(order.Status),
		order.CreatedAt,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Order, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, email, challenge_type, account_size, platform, payment_method, txid, payment_proof, status, created_at
		 FROM orders WHERE id = $1`,
		id,
	)

	var order domain.Order
	var status string
	err := row.Scan(
		&order.ID,
		&order.Username,
		&order.Email,
		&order.ChallengeType,
		&order.AccountSize,
		&order.Platform,
		&order.PaymentMethod,
		&order.TxID,
		&order.PaymentProof,
		&status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}
	order.Status = domain.Status(status)

	return order, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`,
		string(status),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
