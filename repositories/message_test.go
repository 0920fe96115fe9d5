package repositories

import (
	"chat-hub/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// setupMessageRepository returns a repository whose clock advances one second per append
func setupMessageRepository(t *testing.T) *MessageRepository {
	repo := NewMessageRepository(SetupTestDB(t), testLogger())
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func appendTexts(t *testing.T, repo *MessageRepository, chatID uuid.UUID, contents ...string) []domain.Message {
	messages := make([]domain.Message, 0, len(contents))
	for _, content := range contents {
		message, err := repo.Append(domain.MessageDraft{
			ChatID:     chatID,
			SenderID:   "alice-id",
			SenderName: "alice",
			Content:    content,
			Kind:       domain.KindText,
		})
		require.NoError(t, err)
		messages = append(messages, message)
	}
	return messages
}

func contentsOf(messages []domain.Message) []string {
	return lo.Map(messages, func(m domain.Message, _ int) string { return m.Content })
}

func TestMessageRepository_ListMessages_OldestFirst(t *testing.T) {
	req := require.New(t)
	repo := setupMessageRepository(t)
	chatID := uuid.New()

	// Given three messages sent in order
	appendTexts(t, repo, chatID, "m1", "m2", "m3")

	// When fetching a page that covers them all
	page, err := repo.ListMessages(chatID, 0, 50)

	// Then they come back in chronological order
	req.NoError(err)
	req.Equal([]string{"m1", "m2", "m3"}, contentsOf(page))
	req.Equal("alice", page[0].SenderName)
	req.Equal(domain.KindText, page[0].Kind)
	req.Nil(page[0].Attachment)
}

func TestMessageRepository_ListMessages_Paging(t *testing.T) {
	repo := setupMessageRepository(t)
	chatID := uuid.New()
	appendTexts(t, repo, chatID, "m1", "m2", "m3", "m4", "m5")

	tests := []struct {
		name     string
		offset   int
		limit    int
		expected []string
	}{
		{"newest two", 0, 2, []string{"m4", "m5"}},
		{"next two", 2, 2, []string{"m2", "m3"}},
		{"last partial page", 4, 2, []string{"m1"}},
		{"offset past the end", 10, 2, []string{}},
		{"zero limit", 0, 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.ListMessages(chatID, tt.offset, tt.limit)
			require.NoError(t, err)
			require.Equal(t, tt.expected, contentsOf(page))
		})
	}
}

func TestMessageRepository_ListMessages_IsolatedPerChat(t *testing.T) {
	req := require.New(t)
	repo := setupMessageRepository(t)
	first, second := uuid.New(), uuid.New()
	appendTexts(t, repo, first, "a1", "a2")
	appendTexts(t, repo, second, "b1")

	page, err := repo.ListMessages(first, 0, 10)
	req.NoError(err)
	req.Equal([]string{"a1", "a2"}, contentsOf(page))

	empty, err := repo.ListMessages(uuid.New(), 0, 10)
	req.NoError(err)
	req.NotNil(empty)
	req.Empty(empty)
}

func TestMessageRepository_Append_SameInstantKeepsBoth(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(SetupTestDB(t), testLogger())
	instant := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return instant }
	chatID := uuid.New()

	appended := appendTexts(t, repo, chatID, "first", "second")

	page, err := repo.ListMessages(chatID, 0, 10)
	req.NoError(err)
	req.Len(page, 2)
	req.ElementsMatch([]string{"first", "second"}, contentsOf(page))
	req.NotEqual(appended[0].ID, appended[1].ID)
}

func TestMessageRepository_Append_KeepsAttachment(t *testing.T) {
	req := require.New(t)
	repo := setupMessageRepository(t)
	chatID := uuid.New()

	appended, err := repo.Append(domain.MessageDraft{
		ChatID:     chatID,
		SenderID:   "alice-id",
		SenderName: "alice",
		Kind:       domain.KindImage,
		Attachment: &domain.Attachment{Data: []byte{0x89, 'P', 'N', 'G'}, FileName: "cat.png", MediaType: "image/png"},
	})
	req.NoError(err)
	req.NotEqual(uuid.Nil, appended.ID)
	req.False(appended.CreatedAt.IsZero())

	page, err := repo.ListMessages(chatID, 0, 1)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal(appended.ID, page[0].ID)
	req.Equal(domain.KindImage, page[0].Kind)
	req.Equal("cat.png", page[0].Attachment.FileName)
	req.Equal("image/png", page[0].Attachment.MediaType)
	req.Equal([]byte{0x89, 'P', 'N', 'G'}, page[0].Attachment.Data)
	req.True(appended.CreatedAt.Equal(page[0].CreatedAt))
}
