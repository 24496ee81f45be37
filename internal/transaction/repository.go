package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	pkgerrors "paygate/pkg/errors"
)

type Store interface {
	Insert(ctx context.Context, txn *Transaction) error
	ExistsByReference(ctx context.Context, provider, reference string) (bool, error)
	UpdateIPAddress(ctx context.Context, provider, reference, ipAddress string) error
	CountByOrder(ctx context.Context, provider, orderNumber string) (int, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, txn *Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO psp_transactions (
			id, provider, order_number, reference, merchant_reference,
			method, amount, currency, status, origin, live, ip_address, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID, txn.Provider, txn.OrderNumber, nullable(txn.Reference),
		txn.MerchantReference, txn.Method, txn.Amount, txn.Currency,
		txn.Status, string(txn.Origin), txn.Live, nullable(txn.IPAddress),
		txn.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return pkgerrors.ErrConflict.WithCause(err).WithDetail("message",
					fmt.Sprintf("transaction with reference '%s' already recorded", txn.Reference))
			}
		}
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return pkgerrors.ErrConflict.WithCause(err).WithDetail("message",
				fmt.Sprintf("transaction with reference '%s' already recorded", txn.Reference))
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

func (s *PostgresStore) ExistsByReference(ctx context.Context, provider, reference string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM psp_transactions
			WHERE provider = $1 AND reference = $2
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, provider, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transaction reference: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) UpdateIPAddress(ctx context.Context, provider, reference, ipAddress string) error {
	query := `
		UPDATE psp_transactions
		SET ip_address = $3
		WHERE provider = $1 AND reference = $2 AND ip_address IS NULL
	`

	if _, err := s.db.ExecContext(ctx, query, provider, reference, ipAddress); err != nil {
		return fmt.Errorf("failed to update transaction ip address: %w", err)
	}

	// Zero rows updated means the reference is unknown or the address
	// is already recorded. Both are fine for a backfill.
	return nil
}

func (s *PostgresStore) CountByOrder(ctx context.Context, provider, orderNumber string) (int, error) {
	query := `
		SELECT COUNT(*) FROM psp_transactions
		WHERE provider = $1 AND order_number = $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, provider, orderNumber).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count order transactions: %w", err)
	}
	return count, nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
