package notifier

import (
	"context"

	"refund-relay/internal/pkg/telegram"
)

// Sender delivers one message to one target. Implementations must return
// once ctx is done.
type Sender interface {
	Send(ctx context.Context, target Target, msg Message) error
}

// TelegramSender picks the Bot API method from the message shape.
type TelegramSender struct {
	client *telegram.Client
}

func NewTelegramSender(client *telegram.Client) *TelegramSender {
	return &TelegramSender{client: client}
}

func (s *TelegramSender) Send(ctx context.Context, target Target, msg Message) error {
	if msg.Attachment.HasContent() {
		_, err := s.client.SendPhoto(ctx, target.Token, target.ChatID, msg.Text, msg.Attachment)
		return err
	}
	_, err := s.client.SendMessage(ctx, target.Token, target.ChatID, msg.Text)
	return err
}
