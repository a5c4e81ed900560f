package config

import (
	"fmt"
	"strings"

	"refund-relay/internal/pkg/notifier"
)

const (
	botTokenKey = "TELEGRAM_BOT_TOKEN"
	chatIDKey   = "TELEGRAM_CHAT_ID"
	botNameKey  = "TELEGRAM_BOT_NAME"
)

// LoadTargets reads the ordered bot list. Target 1 uses the bare variable
// names, target n>1 uses the "_n" suffix. An index with only one half of the
// credential pair is still returned so the dispatcher can report it as a
// configuration error instead of silently dropping it.
func LoadTargets(lookup func(string) (string, bool), max int) []notifier.Target {
	var targets []notifier.Target
	for i := 1; i <= max; i++ {
		token := get(lookup, key(botTokenKey, i))
		chatID := get(lookup, key(chatIDKey, i))
		if token == "" && chatID == "" {
			continue
		}

		name := get(lookup, key(botNameKey, i))
		if name == "" {
			name = fmt.Sprintf("bot%d", i)
		}

		targets = append(targets, notifier.Target{
			Name:   name,
			Token:  token,
			ChatID: chatID,
		})
	}
	return targets
}

func key(base string, i int) string {
	if i == 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, i)
}

func get(lookup func(string) (string, bool), k string) string {
	v, _ := lookup(k)
	return strings.TrimSpace(v)
}
