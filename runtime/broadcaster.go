package runtime

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"context"
	"log/slog"
)

// Broadcaster pushes a stored message to every other participant of its chat.
type Broadcaster struct {
	registry contract.IRegistry
	log      *slog.Logger
}

func NewBroadcaster(registry contract.IRegistry, log *slog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, log: log}
}

// FanOut serializes the message envelope once and hands it to the registry for
// every online participant except the sender. Offline recipients are skipped silently.
// A canceled ctx stops the remaining sends, already delivered ones stay delivered.
func (b *Broadcaster) FanOut(ctx context.Context, message domain.Message, chat domain.Chat) {
	payload, err := event.EncodeNewMessage(message)
	if err != nil {
		b.log.Error("Cannot encode message event", "message_id", message.ID, "error", err)
		return
	}
	recipients := 0
	for _, participant := range chat.Participants {
		if participant == message.SenderID || !b.registry.IsOnline(participant) {
			continue
		}
		if ctx.Err() != nil {
			b.log.Warn("Fan out interrupted", "chat_id", chat.ID, "message_id", message.ID, "delivered", recipients)
			return
		}
		b.registry.SendTo(participant, payload)
		recipients++
	}
	b.log.Debug("Message fanned out", "chat_id", chat.ID, "message_id", message.ID, "recipients", recipients)
}
