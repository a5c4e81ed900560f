package notifier

import (
	"strings"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
)

// EmptyMessagePlaceholder replaces a blank message body.
const EmptyMessagePlaceholder = "(pesan kosong)"

// Target is one bot credential pair. The set of targets is fixed at startup.
type Target struct {
	Name   string `json:"name"`
	Token  string `json:"-"`
	ChatID string `json:"chat_id"`
}

// missing lists the credential halves that are not configured.
func (t Target) missing() []string {
	var out []string
	if helper.IsBlank(t.Token) {
		out = append(out, "token")
	}
	if helper.IsBlank(t.ChatID) {
		out = append(out, "chat_id")
	}
	return out
}

// Masked is safe to print.
func (t Target) Masked() string {
	return t.Name + " (chat " + t.ChatID + ", token " + helper.MaskSecret(t.Token) + ")"
}

// Message is what gets delivered to every target.
type Message struct {
	Text       string
	Attachment *types.BufferedFile
}

// normalized applies the placeholder rule and drops empty attachments.
func (m Message) normalized() Message {
	out := Message{Text: strings.TrimSpace(m.Text)}
	if out.Text == "" {
		out.Text = EmptyMessagePlaceholder
	}
	if m.Attachment.HasContent() {
		out.Attachment = m.Attachment
	}
	return out
}
