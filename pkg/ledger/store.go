package ledger

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/spendsync/spendsync/pkg/common"
	"github.com/spendsync/spendsync/pkg/database"
)

const (
	transactionsBlob = "transactions.json"
	processedIDsBlob = "processed_ids.json"
)

// BlobStore is the persistent key-value storage behind the ledger.
type BlobStore interface {
	ReadBlob(name string) ([]byte, error)
	WriteBlob(name string, data []byte) error
}

// Store is the authoritative in-process ledger: transactions newest-first
// plus the processed-message id set. Merge is the only mutator and performs
// its read-modify-write under the lock, so the manual-add path and the sync
// path serialize through the same single-writer discipline.
type Store struct {
	mu    sync.Mutex
	blobs BlobStore

	transactions []database.Transaction
	processedIDs []string
	processedSet map[string]struct{}
}

func NewStore(blobs BlobStore) *Store {
	return &Store{
		blobs:        blobs,
		processedSet: map[string]struct{}{},
	}
}

// Load reads both blobs. A missing blob is first run; a corrupt blob is
// treated the same way (logged) rather than refusing to start.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = nil
	s.processedIDs = nil
	s.processedSet = map[string]struct{}{}

	if data, err := s.blobs.ReadBlob(transactionsBlob); err == nil {
		if err = json.Unmarshal(data, &s.transactions); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("corrupt transactions blob, starting empty")
			s.transactions = nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("unreadable transactions blob, starting empty")
	}

	if data, err := s.blobs.ReadBlob(processedIDsBlob); err == nil {
		if err = json.Unmarshal(data, &s.processedIDs); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("corrupt processed-ids blob, starting empty")
			s.processedIDs = nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("unreadable processed-ids blob, starting empty")
	}

	for _, id := range s.processedIDs {
		s.processedSet[id] = struct{}{}
	}

	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() database.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := database.SyncState{
		Transactions:        make([]database.Transaction, len(s.transactions)),
		ProcessedMessageIDs: make([]string, len(s.processedIDs)),
	}
	copy(state.Transactions, s.transactions)
	copy(state.ProcessedMessageIDs, s.processedIDs)

	return state
}

func (s *Store) IsProcessed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.processedSet[id]

	return ok
}

// Merge prepends the new transactions (input order preserved, newest first
// overall) and records the processed ids, then rewrites both blobs. The
// in-memory state stays authoritative even when the write fails; the error
// is surfaced so the caller can warn the user.
func (s *Store) Merge(
	ctx context.Context,
	transactions []database.Transaction,
	processedIDs []string,
) error {
	for _, tx := range transactions {
		if err := tx.Validate(); err != nil {
			return errors.Wrap(err, "refusing to merge invalid transaction")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(transactions) > 0 {
		merged := make([]database.Transaction, 0, len(transactions)+len(s.transactions))
		merged = append(merged, transactions...)
		merged = append(merged, s.transactions...)
		s.transactions = merged
	}

	for _, id := range processedIDs {
		if _, ok := s.processedSet[id]; ok {
			continue
		}

		s.processedSet[id] = struct{}{}
		s.processedIDs = append(s.processedIDs, id)
	}

	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	txData, err := json.Marshal(s.transactions)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "marshal transactions"), common.ErrPersistence)
	}

	idData, err := json.Marshal(s.processedIDs)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "marshal processed ids"), common.ErrPersistence)
	}

	if err = s.blobs.WriteBlob(transactionsBlob, txData); err != nil {
		return err
	}

	if err = s.blobs.WriteBlob(processedIDsBlob, idData); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Int("transactions", len(s.transactions)).
		Int("processed_ids", len(s.processedIDs)).
		Msg("ledger persisted")

	return nil
}
