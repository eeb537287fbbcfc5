package main

import (
	"context"

	"github.com/spendsync/spendsync/pkg/database"
	"github.com/spendsync/spendsync/pkg/syncer"
)

type SyncService interface {
	Sync(ctx context.Context) (syncer.SyncResult, error)
	AddManual(ctx context.Context, text string) (database.Transaction, error)
}

type LedgerReader interface {
	Snapshot() database.SyncState
}

type MailAuth interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) error
	Authenticated() bool
}
