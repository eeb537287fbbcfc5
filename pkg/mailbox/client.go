package mailbox

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"

	"github.com/spendsync/spendsync/pkg/common"
	"github.com/spendsync/spendsync/pkg/database"
)

const (
	// DefaultResultCap bounds one listing call to keep sync latency and API
	// quota usage small.
	DefaultResultCap = 20

	detailPoolSize = 5
)

// Client lists candidate alert messages and fetches their decoded bodies.
// Detail fetches for distinct messages fan out on a bounded pool; result
// order is not guaranteed to match request order.
type Client struct {
	auth *Authenticator
	api  API
}

func NewClient(auth *Authenticator) *Client {
	return &Client{
		auth: auth,
	}
}

// NewClientWithAPI bypasses the Gmail service construction. Used by tests.
func NewClientWithAPI(auth *Authenticator, api API) *Client {
	return &Client{
		auth: auth,
		api:  api,
	}
}

func (c *Client) Authenticated() bool {
	return c.auth.Authenticated()
}

func (c *Client) ListCandidates(
	ctx context.Context,
	query string,
	limit int64,
) ([]database.SourceMessage, error) {
	api, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultResultCap
	}

	ids, err := api.ListMessageIDs(ctx, query, limit)
	if err != nil {
		if isAuthError(err) {
			c.auth.Reset()
			return nil, errors.Mark(err, common.ErrMailboxAuth)
		}

		return nil, errors.Mark(err, common.ErrMailboxFetch)
	}

	var mu sync.Mutex
	var result []database.SourceMessage

	pool := workerpool.New(detailPoolSize)
	for _, id := range ids {
		id := id

		pool.Submit(func() {
			msg, getErr := api.GetMessage(ctx, id)
			if getErr != nil {
				// one broken message must not sink the whole listing
				zerolog.Ctx(ctx).Warn().Err(getErr).
					Str("message_id", id).
					Msg("dropping message, detail fetch failed")
				return
			}

			mu.Lock()
			result = append(result, database.SourceMessage{
				ID:      msg.Id,
				Snippet: msg.Snippet,
				Body:    messageBody(msg),
			})
			mu.Unlock()
		})
	}
	pool.StopWait()

	return result, nil
}

func (c *Client) service(ctx context.Context) (API, error) {
	if c.api != nil {
		return c.api, nil
	}

	return newGmailAPI(ctx, c.auth)
}

func isAuthError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401 || apiErr.Code == 403
	}

	return false
}
