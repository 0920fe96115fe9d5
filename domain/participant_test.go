package domain

import (
	"chat-hub/errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestParticipantSet_UnionWithRequester(t *testing.T) {
	req := require.New(t)

	// Duplicates and the requester collapse into one set
	participants := ParticipantSet("alice", []string{"bob", "alice", "bob"})

	req.Equal([]string{"alice", "bob"}, participants)
}

func TestValidateParticipants(t *testing.T) {
	tests := []struct {
		name         string
		isGroup      bool
		participants []string
		wantErr      bool
	}{
		{"private pair", false, []string{"alice", "bob"}, false},
		{"private alone", false, []string{"alice"}, true},
		{"private with three", false, []string{"alice", "bob", "carol"}, true},
		{"group alone", true, []string{"alice"}, false},
		{"large group", true, []string{"a", "b", "c", "d", "e"}, false},
		{"empty group", true, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParticipants(tt.isGroup, tt.participants)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidParticipantCount)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPairKey_IsOrderIndependent(t *testing.T) {
	req := require.New(t)

	k1, err := PairKey([]string{"bob", "alice"})
	req.NoError(err)
	k2, err := PairKey([]string{"alice", "bob"})
	req.NoError(err)

	req.Equal("alice:bob", k1)
	req.Equal(k1, k2)

	_, err = PairKey([]string{"alice"})
	req.ErrorIs(err, errors.ErrInvalidParticipantCount)
}

func TestSameParticipants(t *testing.T) {
	req := require.New(t)
	req.True(SameParticipants([]string{"a", "b"}, []string{"b", "a"}))
	req.False(SameParticipants([]string{"a", "b"}, []string{"a", "c"}))
}

func TestChat_OtherParticipant(t *testing.T) {
	req := require.New(t)
	private := Chat{Participants: []string{"alice", "bob"}}
	group := Chat{IsGroup: true, Participants: []string{"alice", "bob"}}

	other, ok := private.OtherParticipant("alice")
	req.True(ok)
	req.Equal("bob", other)

	_, ok = group.OtherParticipant("alice")
	req.False(ok)

	req.True(private.HasParticipant("bob"))
	req.False(private.HasParticipant("carol"))
}

func TestSortByLastActivity(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	chats := []Chat{
		{Name: "silent-old", CreatedAt: now.Add(-2 * time.Hour)},
		{Name: "active-old", LastActivityAt: lo.ToPtr(now.Add(-time.Hour))},
		{Name: "silent-new", CreatedAt: now.Add(-time.Minute)},
		{Name: "active-new", LastActivityAt: lo.ToPtr(now)},
	}

	SortByLastActivity(chats)

	names := lo.Map(chats, func(c Chat, _ int) string { return c.Name })
	req.Equal([]string{"active-new", "active-old", "silent-new", "silent-old"}, names)
}

func TestValidateMessage(t *testing.T) {
	req := require.New(t)
	file := &Attachment{Data: []byte("x"), FileName: "a.txt", MediaType: "text/plain"}

	req.NoError(ValidateMessage("hello", KindText, nil))
	req.NoError(ValidateMessage("a file", KindFile, file))
	req.ErrorIs(ValidateMessage("  ", KindText, nil), errors.ErrEmptyContent)
	req.ErrorIs(ValidateMessage("hello", "video", nil), errors.ErrInvalidMessageKind)
	req.ErrorIs(ValidateMessage("hello", KindText, file), errors.ErrUnexpectedFile)
	req.Equal(KindImage, KindFromMediaType("image/png"))
	req.Equal(KindFile, KindFromMediaType("application/pdf"))
}
