package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/spendsync/spendsync/pkg/common"
	"github.com/spendsync/spendsync/pkg/database"
)

type Config struct {
	Mailbox   Mailbox
	Extractor Extractor
	Ledger    Ledger

	// Notifier posts a summary after each completed sync. Optional.
	Notifier Notifier

	// Query is the provider filter for candidate alert messages,
	// e.g. sender domain plus subject keyword.
	Query string
	Limit int64

	// OnProgress is invoked after every processed message with
	// completed/total counts. Optional.
	OnProgress func(completed, total int)
}

// SyncResult reports one sync pass: Total candidates attempted, Added
// transactions merged.
type SyncResult struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// Syncer drives the fetch -> filter-new -> extract-each -> merge cycle.
// Only one sync may run at a time; both the sync path and the manual paste
// path mutate the same ledger.
type Syncer struct {
	cfg Config
	mu  sync.Mutex
}

func NewSyncer(cfg Config) *Syncer {
	return &Syncer{
		cfg: cfg,
	}
}

// Sync performs one synchronization attempt. Per-message extraction failures
// are logged and skipped without marking the message processed, so it is
// retried on a later sync. Listing failures abort with the ledger untouched.
func (s *Syncer) Sync(ctx context.Context) (SyncResult, error) {
	if !s.mu.TryLock() {
		return SyncResult{}, common.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	log := zerolog.Ctx(ctx)

	if !s.cfg.Mailbox.Authenticated() {
		return SyncResult{}, errors.Mark(errors.New("not authenticated, link the mailbox first"), common.ErrMailboxAuth)
	}

	candidates, err := s.cfg.Mailbox.ListCandidates(ctx, s.cfg.Query, s.cfg.Limit)
	if err != nil {
		return SyncResult{}, err
	}

	fresh := lo.Filter(candidates, func(m database.SourceMessage, _ int) bool {
		return !s.cfg.Ledger.IsProcessed(m.ID)
	})

	if len(fresh) == 0 {
		log.Info().Int("candidates", len(candidates)).Msg("nothing new to sync")
		return SyncResult{}, nil
	}

	total := len(fresh)

	var added []database.Transaction
	var processedIDs []string

	// sequential on purpose: progress must be deterministic and
	// monotonically non-decreasing as completed/total
	for i, msg := range fresh {
		text := msg.Body
		if text == "" {
			text = msg.Snippet
		}

		tx, extractErr := s.cfg.Extractor.Extract(ctx, text)
		if extractErr != nil {
			// skipped, not marked processed: retried on the next sync
			log.Warn().Err(extractErr).
				Str("message_id", msg.ID).
				Msg("extraction failed, message skipped")
		} else {
			added = append(added, tx)
			processedIDs = append(processedIDs, msg.ID)
		}

		s.reportProgress(i+1, total)
	}

	if err = s.cfg.Ledger.Merge(ctx, added, processedIDs); err != nil {
		if errors.Is(err, common.ErrPersistence) {
			// the merge itself took effect in memory; warn, do not fail the sync
			log.Warn().Err(err).Msg("ledger flush failed, state kept in memory")
		} else {
			return SyncResult{}, err
		}
	}

	result := SyncResult{
		Added: len(added),
		Total: total,
	}

	s.notify(ctx, result)

	log.Info().
		Int("added", result.Added).
		Int("total", result.Total).
		Msg("sync finished")

	return result, nil
}

// AddManual is the paste path: raw alert text straight to the extractor and
// into the ledger, no message id involved. An extraction failure leaves the
// ledger untouched.
func (s *Syncer) AddManual(ctx context.Context, text string) (database.Transaction, error) {
	tx, err := s.cfg.Extractor.Extract(ctx, text)
	if err != nil {
		return database.Transaction{}, err
	}

	if err = s.cfg.Ledger.Merge(ctx, []database.Transaction{tx}, nil); err != nil {
		if !errors.Is(err, common.ErrPersistence) {
			return database.Transaction{}, err
		}

		zerolog.Ctx(ctx).Warn().Err(err).Msg("ledger flush failed, state kept in memory")
	}

	return tx, nil
}

func (s *Syncer) reportProgress(completed, total int) {
	if s.cfg.OnProgress != nil {
		s.cfg.OnProgress(completed, total)
	}
}

func (s *Syncer) notify(ctx context.Context, result SyncResult) {
	if s.cfg.Notifier == nil {
		return
	}

	text := fmt.Sprintf("Sync finished: %d of %d new alert(s) imported", result.Added, result.Total)

	if err := s.cfg.Notifier.SendMessage(ctx, text); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to send sync summary")
	}
}
