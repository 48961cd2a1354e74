package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stemstr/skillgate/internal/receipts"
)

func New(dbFile string) (*Repo, error) {
	if dbFile == "" {
		return nil, fmt.Errorf("must set receipts dsn")
	}
	if _, err := os.Stat(dbFile); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("creating db file %v\n", dbFile)
		f, err := os.Create(dbFile)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite3", dbFile)
	if err != nil {
		return nil, err
	}

	r := Repo{
		dbFile: dbFile,
		db:     db,
	}

	if err := r.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return &r, nil
}

type Repo struct {
	dbFile string
	db     *sql.DB
}

func (r *Repo) Create(ctx context.Context, rec receipts.Receipt) (*receipts.Receipt, error) {
	const insert = `INSERT INTO receipt (id, name, tx_hash, payer, payee, value, block_number, tx_timestamp, fulfilled, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, insert)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rec.ID = uuid.New().String()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = stmt.ExecContext(ctx,
		rec.ID,
		rec.Name,
		rec.TxHash,
		rec.From,
		rec.To,
		rec.Value,
		rec.BlockNumber,
		rec.Timestamp,
		rec.Fulfilled,
		rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert receipt: %w", err)
	}

	return &rec, nil
}

func (r *Repo) List(ctx context.Context, opts receipts.ListOptions) ([]receipts.Receipt, error) {
	query := `SELECT id, name, tx_hash, payer, payee, value, block_number, tx_timestamp, fulfilled, created_at FROM receipt`
	if opts.UnfulfilledOnly {
		query += ` WHERE fulfilled = 0`
	}
	query += ` ORDER BY created_at DESC`

	var args []any
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []receipts.Receipt
	for rows.Next() {
		var rec receipts.Receipt
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.TxHash,
			&rec.From,
			&rec.To,
			&rec.Value,
			&rec.BlockNumber,
			&rec.Timestamp,
			&rec.Fulfilled,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) createSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS receipt (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    tx_hash TEXT NOT NULL,
    payer TEXT NOT NULL,
    payee TEXT NOT NULL,
    value TEXT NOT NULL,
    block_number TEXT NOT NULL,
    tx_timestamp TEXT NOT NULL,
    fulfilled INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);
	CREATE INDEX IF NOT EXISTS idx_receipt_name ON receipt(name);
	CREATE INDEX IF NOT EXISTS idx_receipt_tx_hash ON receipt(tx_hash);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return err
	}

	return nil
}
