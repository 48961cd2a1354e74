package main

import (
	"fmt"

	"github.com/stemstr/skillgate/internal/receipts"
	"github.com/stemstr/skillgate/internal/receipts/repo/pg"
	"github.com/stemstr/skillgate/internal/receipts/repo/sqlite"
)

func initBackend(kind, dsn string) (receipts.Store, error) {
	switch kind {
	case "postgres":
		return pg.New(dsn)
	case "sqlite":
		return sqlite.New(dsn)
	default:
		return nil, fmt.Errorf("unsupported receipts driver %q. must be one of 'postgres' or 'sqlite'", kind)
	}
}
