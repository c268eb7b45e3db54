package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"donatebridge/internal/domain"
)

// LedgerRepositoryPG implements domain.Ledger against PostgreSQL. The game
// server owns the balance table, so its name and columns come from
// configuration; they are quoted once here and values only ever travel as
// statement parameters.
//
// Claims live in a table this service owns:
//
//	CREATE TABLE donation_claims (
//	    request_id text PRIMARY KEY,
//	    status     text NOT NULL,
//	    claimed_at timestamptz NOT NULL DEFAULT now()
//	);
type LedgerRepositoryPG struct {
	pool *pgxpool.Pool

	selectSQL    string
	incrementSQL string
}

// NewLedgerRepository creates a ledger repo bound to the configured
// table/column names.
func NewLedgerRepository(pool *pgxpool.Pool, table, playerColumn, balanceColumn string) *LedgerRepositoryPG {
	return &LedgerRepositoryPG{
		pool:         pool,
		selectSQL:    buildSelectSQL(table, playerColumn, balanceColumn),
		incrementSQL: buildIncrementSQL(table, playerColumn, balanceColumn),
	}
}

func buildSelectSQL(table, playerColumn, balanceColumn string) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		pgx.Identifier{balanceColumn}.Sanitize(),
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{playerColumn}.Sanitize(),
	)
}

func buildIncrementSQL(table, playerColumn, balanceColumn string) string {
	balance := pgx.Identifier{balanceColumn}.Sanitize()
	return fmt.Sprintf(
		"UPDATE %s SET %s = %s + $1 WHERE %s = $2",
		pgx.Identifier{table}.Sanitize(),
		balance,
		balance,
		pgx.Identifier{playerColumn}.Sanitize(),
	)
}

// GetBalance reads the stored balance for a handle.
func (r *LedgerRepositoryPG) GetBalance(ctx context.Context, handle string) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, r.selectSQL, handle).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("select balance: %w", err)
	}
	return balance, nil
}

// AddBalance credits delta in a single server-side increment so concurrent
// credits to the same row cannot lose updates. The returned count is the
// number of rows matched; zero means no ledger row exists for the handle.
func (r *LedgerRepositoryPG) AddBalance(ctx context.Context, handle string, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("delta must be positive, got %d", delta)
	}
	tag, err := r.pool.Exec(ctx, r.incrementSQL, delta, handle)
	if err != nil {
		return 0, fmt.Errorf("increment balance: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClaimRequest inserts the claim row for a request identifier. The primary
// key makes the insert a compare-and-set: whichever caller gets the row in
// owns the request, everyone after sees zero rows inserted.
func (r *LedgerRepositoryPG) ClaimRequest(ctx context.Context, requestID, status string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO donation_claims (request_id, status)
VALUES ($1, $2)
ON CONFLICT (request_id) DO NOTHING
`, requestID, status)
	if err != nil {
		return false, fmt.Errorf("claim request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseClaim drops a claim so the request can be processed again, used when
// the credit turned out to match no ledger row.
func (r *LedgerRepositoryPG) ReleaseClaim(ctx context.Context, requestID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM donation_claims WHERE request_id = $1`, requestID); err != nil {
		return fmt.Errorf("release claim: %w", err)
	}
	return nil
}
