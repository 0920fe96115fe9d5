package runtime

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func groupChat(participants ...string) domain.Chat {
	return domain.Chat{ID: uuid.New(), Name: "team", IsGroup: true, Participants: participants, CreatedBy: participants[0]}
}

func messageFrom(chat domain.Chat, senderID string) domain.Message {
	return domain.Message{
		ID:         uuid.New(),
		ChatID:     chat.ID,
		SenderID:   senderID,
		SenderName: "alice",
		Content:    "hello",
		Kind:       domain.KindText,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestBroadcaster_FanOut_Skips_Sender(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	broadcaster := NewBroadcaster(registry, logs.GetLoggerFromLevel(slog.LevelDebug))

	chat := groupChat("alice", "bob", "carol")
	message := messageFrom(chat, "alice")

	// Then each other participant is addressed exactly once with the same envelope
	var payloads [][]byte
	for _, recipient := range []string{"bob", "carol"} {
		registry.EXPECT().IsOnline(recipient).Return(true)
		registry.EXPECT().SendTo(recipient, gomock.Any()).
			Do(func(_ string, payload []byte) { payloads = append(payloads, payload) }).
			Times(1)
	}

	// When the message is fanned out
	broadcaster.FanOut(context.Background(), message, chat)

	req.Len(payloads, 2)
	req.Equal(payloads[0], payloads[1])
	envelope, err := event.DecodeNewMessage(payloads[0])
	req.NoError(err)
	req.Equal(event.NewMessageType, envelope.Type)
	req.Equal(chat.ID.String(), envelope.ChatID)
	req.Equal(message.ID.String(), envelope.Message.ID)
	req.Equal("hello", envelope.Message.Content)
}

func TestBroadcaster_FanOut_Canceled_Context_Sends_Nothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	broadcaster := NewBroadcaster(registry, logs.GetLoggerFromLevel(slog.LevelDebug))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	registry.EXPECT().IsOnline(gomock.Any()).Return(true).AnyTimes()
	registry.EXPECT().SendTo(gomock.Any(), gomock.Any()).Times(0)

	chat := groupChat("alice", "bob")
	broadcaster.FanOut(ctx, messageFrom(chat, "alice"), chat)
}

func TestBroadcaster_FanOut_Offline_Participant_Is_Not_Addressed(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	broadcaster := NewBroadcaster(registry, logs.GetLoggerFromLevel(slog.LevelDebug))

	chat := groupChat("alice", "bob", "carol")
	registry.EXPECT().IsOnline("bob").Return(true)
	registry.EXPECT().IsOnline("carol").Return(false)
	registry.EXPECT().SendTo("bob", gomock.Any()).Times(1)
	registry.EXPECT().SendTo("carol", gomock.Any()).Times(0)

	broadcaster.FanOut(context.Background(), messageFrom(chat, "alice"), chat)
}

// Bob is online, Carol is not: only Bob receives, nothing fails
func TestBroadcaster_FanOut_Online_And_Offline_Participants(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry(log)
	broadcaster := NewBroadcaster(registry, log)

	alice, bob := &Sink{}, &Sink{}
	registry.Admit("alice", alice)
	registry.Admit("bob", bob)

	chat := groupChat("alice", "bob", "carol")
	message := messageFrom(chat, "alice")
	broadcaster.FanOut(context.Background(), message, chat)

	req.Empty(alice.received())
	req.Len(bob.received(), 1)
	envelope, err := event.DecodeNewMessage(bob.received()[0])
	req.NoError(err)
	req.Equal(message.ID.String(), envelope.Message.ID)
	req.False(registry.IsOnline("carol"))
}
