package mailbox

import (
	"context"

	"google.golang.org/api/gmail/v1"
)

//go:generate mockgen -destination interfaces_mocks_test.go -package mailbox_test -source=interfaces.go

// API is the thin surface of the mail provider the client needs. The real
// implementation wraps the Gmail service; tests mock it.
type API interface {
	ListMessageIDs(ctx context.Context, query string, limit int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
}
