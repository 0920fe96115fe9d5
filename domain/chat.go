package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Chat is a conversation owning a participant set.
// Only LastActivityAt changes after creation.
type Chat struct {
	ID             uuid.UUID
	Name           string
	IsGroup        bool
	Participants   []string
	CreatedBy      string
	CreatedAt      time.Time
	LastActivityAt *time.Time
}

func (c Chat) HasParticipant(userID string) bool {
	return lo.Contains(c.Participants, userID)
}

// OtherParticipant returns the peer of userID in a private chat.
func (c Chat) OtherParticipant(userID string) (string, bool) {
	if c.IsGroup {
		return "", false
	}
	return lo.Find(c.Participants, func(p string) bool { return p != userID })
}

// SortByLastActivity orders chats by most recent activity first.
// Chats that never received a message come last, newest creation first.
func SortByLastActivity(chats []Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		a, b := chats[i].LastActivityAt, chats[j].LastActivityAt
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return chats[i].CreatedAt.After(chats[j].CreatedAt)
		}
	})
}
