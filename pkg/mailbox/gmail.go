package mailbox

import (
	"context"

	"github.com/cockroachdb/errors"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type gmailAPI struct {
	svc *gmail.Service
}

func newGmailAPI(ctx context.Context, auth *Authenticator) (*gmailAPI, error) {
	ts, err := auth.tokenSource(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, errors.Wrap(err, "create gmail service")
	}

	return &gmailAPI{
		svc: svc,
	}, nil
}

func (g *gmailAPI) ListMessageIDs(
	ctx context.Context,
	query string,
	limit int64,
) ([]string, error) {
	resp, err := g.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}

	return ids, nil
}

func (g *gmailAPI) GetMessage(
	ctx context.Context,
	id string,
) (*gmail.Message, error) {
	return g.svc.Users.Messages.Get("me", id).
		Format("full").
		Context(ctx).
		Do()
}
