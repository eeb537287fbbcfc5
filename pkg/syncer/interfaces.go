package syncer

import (
	"context"

	"github.com/spendsync/spendsync/pkg/database"
)

//go:generate mockgen -destination interfaces_mocks_test.go -package syncer_test -source=interfaces.go

type Mailbox interface {
	Authenticated() bool
	ListCandidates(ctx context.Context, query string, limit int64) ([]database.SourceMessage, error)
}

type Extractor interface {
	Extract(ctx context.Context, text string) (database.Transaction, error)
}

type Ledger interface {
	IsProcessed(id string) bool
	Merge(ctx context.Context, transactions []database.Transaction, processedIDs []string) error
	Snapshot() database.SyncState
}

type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}
