package mailbox

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/spendsync/spendsync/pkg/common"
)

// Authenticator owns the OAuth token lifecycle:
// Unauthenticated -> AwaitingToken (AuthURL handed out) -> Authenticated
// (Exchange stored a token). A rejected authorization during a fetch resets
// it back to Unauthenticated via Reset.
type Authenticator struct {
	cfg *oauth2.Config

	mu    sync.Mutex
	token *oauth2.Token
	ready chan struct{}
}

func NewAuthenticator(clientID, clientSecret, redirectURL string) *Authenticator {
	return &Authenticator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailReadonlyScope},
		},
	}
}

// AuthURL returns the provider consent URL and moves to AwaitingToken.
func (a *Authenticator) AuthURL(state string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ready == nil {
		a.ready = make(chan struct{})
	}

	return a.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange completes the consent flow with the provider-delivered code and
// moves to Authenticated.
func (a *Authenticator) Exchange(ctx context.Context, code string) error {
	token, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "exchange auth code"), common.ErrMailboxAuth)
	}

	a.SetToken(token)

	return nil
}

// SetToken stores a token directly and releases anyone blocked in AwaitToken.
func (a *Authenticator) SetToken(token *oauth2.Token) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.token = token

	if a.ready != nil {
		close(a.ready)
		a.ready = nil
	}
}

func (a *Authenticator) Authenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.token != nil
}

// Reset drops the held token, forcing re-authentication on the next sync.
func (a *Authenticator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.token = nil
}

// AwaitToken is a one-shot readiness future: it returns once a token has
// been delivered, or when ctx expires. Callers bound the wait with a
// deadline on ctx.
func (a *Authenticator) AwaitToken(ctx context.Context) error {
	a.mu.Lock()
	if a.token != nil {
		a.mu.Unlock()
		return nil
	}

	if a.ready == nil {
		a.ready = make(chan struct{})
	}
	ready := a.ready
	a.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return errors.Mark(errors.Wrap(ctx.Err(), "waiting for token"), common.ErrMailboxAuth)
	}
}

func (a *Authenticator) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token == nil {
		return nil, errors.Mark(errors.New("no token held"), common.ErrMailboxAuth)
	}

	return a.cfg.TokenSource(ctx, a.token), nil
}
