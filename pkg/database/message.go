package database

// SourceMessage is one mailbox alert message under consideration. ID is the
// provider-assigned identifier, stable across fetches, and is the
// deduplication key. Body may be empty when no payload part decoded; the
// snippet is the extraction input then.
type SourceMessage struct {
	ID      string
	Snippet string
	Body    string
}

// SyncState is the full persisted ledger: transactions newest-first by
// insertion plus the ids of messages already turned into a transaction.
// It is rewritten to storage wholesale after every mutation.
type SyncState struct {
	Transactions        []Transaction
	ProcessedMessageIDs []string
}
