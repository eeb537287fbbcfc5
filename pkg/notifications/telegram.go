package notifications

import (
	"context"
	"fmt"

	"github.com/imroc/req/v3"
)

// Telegram posts sync summaries to a single configured chat.
type Telegram struct {
	client   *req.Client
	apiToken string
	chatID   int64
}

func NewTelegram(
	apiToken string,
	chatID int64,
	cl *req.Client,
) *Telegram {
	return &Telegram{
		client:   cl,
		apiToken: apiToken,
		chatID:   chatID,
	}
}

func (t *Telegram) SendMessage(
	ctx context.Context,
	text string,
) error {
	resp, err := t.client.R().
		SetBody(map[string]interface{}{
			"chat_id": t.chatID,
			"text":    text,
		}).
		SetContext(ctx).
		Post(fmt.Sprintf("https://api.telegram.org/bot%v/sendMessage", t.apiToken))

	if err != nil {
		return err
	}

	if resp.IsErrorState() {
		return fmt.Errorf("unexpected status code: %v and message %v", resp.StatusCode, resp.String())
	}

	return nil
}
