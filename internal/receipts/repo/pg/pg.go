package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/stemstr/skillgate/internal/receipts"
)

func New(dbConnStr string) (*Repo, error) {
	db, err := sqlx.Connect("postgres", dbConnStr)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect: %w", err)
	}

	// sqlx default is 0 (unlimited), while postgresql by default accepts up to 100 connections
	db.SetMaxOpenConns(20)

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS receipt (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	tx_hash TEXT NOT NULL,
	payer TEXT NOT NULL,
	payee TEXT NOT NULL,
	value TEXT NOT NULL,
	block_number TEXT NOT NULL,
	tx_timestamp TEXT NOT NULL,
	fulfilled BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS receipt_name_idx ON receipt(name);
CREATE INDEX IF NOT EXISTS receipt_tx_hash_idx ON receipt(tx_hash);
    `)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Exec schema: %w", err)
	}

	return &Repo{
		db: db,
	}, nil
}

type Repo struct {
	db *sqlx.DB
}

func (r *Repo) Create(ctx context.Context, rec receipts.Receipt) (*receipts.Receipt, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query, args, err := sqlx.Named(`INSERT INTO receipt (name, tx_hash, payer, payee, value, block_number, tx_timestamp, fulfilled, created_at)
VALUES (:name, :tx_hash, :payer, :payee, :value, :block_number, :tx_timestamp, :fulfilled, :created_at) RETURNING id;`, rec)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Named create receipt: %w", err)
	}
	query = r.db.Rebind(query)

	if err := r.db.GetContext(ctx, &rec.ID, query, args...); err != nil {
		return nil, fmt.Errorf("db.Get create receipt: %w", err)
	}

	return &rec, nil
}

func (r *Repo) List(ctx context.Context, opts receipts.ListOptions) ([]receipts.Receipt, error) {
	query := `SELECT id, name, tx_hash, payer, payee, value, block_number, tx_timestamp, fulfilled, created_at FROM receipt`
	if opts.UnfulfilledOnly {
		query += ` WHERE NOT fulfilled`
	}
	query += ` ORDER BY created_at DESC`

	var args []any
	if opts.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, opts.Limit)
	}

	var list []receipts.Receipt
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("db.Select receipts: %w", err)
	}

	return list, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}
