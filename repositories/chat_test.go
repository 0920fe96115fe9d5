package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func setupChatRepository(t *testing.T) (*ChatRepository, *UserRepository) {
	db := SetupTestDB(t)
	users := NewUserRepository(db, SetupTestIndex(t), testLogger())
	return NewChatRepository(db, testLogger(), users, 100), users
}

func TestChatRepository_CreatePrivateChat_IsIdempotent(t *testing.T) {
	req := require.New(t)
	chats, users := setupChatRepository(t)
	ids := newUsers(t, users, "alice", "bob")
	alice, bob := ids[0], ids[1]

	// Given Alice and Bob have no prior chat
	// When Alice opens a private chat with Bob
	first, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: alice, ParticipantIDs: []string{bob}})
	req.NoError(err)
	req.False(first.IsGroup)
	req.ElementsMatch([]string{alice, bob}, first.Participants)
	req.Equal(alice, first.CreatedBy)

	// Then asking again, from either side, returns the same chat
	second, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: alice, ParticipantIDs: []string{bob}})
	req.NoError(err)
	req.Equal(first.ID, second.ID)

	reversed, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: bob, ParticipantIDs: []string{alice}})
	req.NoError(err)
	req.Equal(first.ID, reversed.ID)
	req.Equal(alice, reversed.CreatedBy)
}

func TestChatRepository_CreatePrivateChat_ConcurrentCreationsConverge(t *testing.T) {
	req := require.New(t)
	chats, users := setupChatRepository(t)
	ids := newUsers(t, users, "alice", "bob")

	const attempts = 16
	results := make([]uuid.UUID, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			requester, peer := ids[i%2], ids[(i+1)%2]
			chat, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: requester, ParticipantIDs: []string{peer}})
			results[i], errs[i] = chat.ID, err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		req.NoError(err)
	}
	req.Len(lo.Uniq(results), 1)

	aliceChats, err := chats.ListChatsForUser(ids[0])
	req.NoError(err)
	req.Len(aliceChats, 1)
}

func TestChatRepository_CreateChat_Validation(t *testing.T) {
	chats, users := setupChatRepository(t)
	ids := newUsers(t, users, "alice", "bob", "carol")
	alice, bob, carol := ids[0], ids[1], ids[2]

	tests := []struct {
		name string
		cmd  domain.CreateChatCommand
		err  error
	}{
		{"unknown participant", domain.CreateChatCommand{RequesterID: alice, ParticipantIDs: []string{uuid.NewString()}}, errors.ErrUnknownParticipant},
		{"private chat with self", domain.CreateChatCommand{RequesterID: alice, ParticipantIDs: []string{alice}}, errors.ErrInvalidParticipantCount},
		{"private chat without peer", domain.CreateChatCommand{RequesterID: alice}, errors.ErrInvalidParticipantCount},
		{"private chat with three", domain.CreateChatCommand{RequesterID: alice, ParticipantIDs: []string{bob, carol}}, errors.ErrInvalidParticipantCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chats.CreateChat(tt.cmd)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestChatRepository_CreatePrivateChat_StalePairIndex(t *testing.T) {
	req := require.New(t)
	chats, users := setupChatRepository(t)
	ids := newUsers(t, users, "alice", "bob", "carol")

	group, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: ids[0], Name: "team", IsGroup: true, ParticipantIDs: []string{ids[1], ids[2]}})
	req.NoError(err)

	// Given the alice/bob pair key points at a chat that is not theirs
	pair, err := domain.PairKey([]string{ids[0], ids[1]})
	req.NoError(err)
	req.NoError(chats.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pairKey(pair), []byte(group.ID.String()))
	}))

	// Then the chat is not handed out as their private chat
	_, err = chats.CreateChat(domain.CreateChatCommand{RequesterID: ids[0], ParticipantIDs: []string{ids[1]}})
	req.Error(err)
	req.Contains(err.Error(), group.ID.String())
}

func TestChatRepository_CreateGroupChat_NoDedup(t *testing.T) {
	req := require.New(t)
	chats, users := setupChatRepository(t)
	ids := newUsers(t, users, "alice", "bob", "carol")

	cmd := domain.CreateChatCommand{RequesterID: ids[0], Name: "team", IsGroup: true, ParticipantIDs: []string{ids[1], ids[2], ids[1]}}
	g1, err := chats.CreateChat(cmd)
	req.NoError(err)
	g2, err := chats.CreateChat(cmd)
	req.NoError(err)

	req.NotEqual(g1.ID, g2.ID)
	req.Len(g1.Participants, 3)
	req.Equal("team", g1.Name)
}

func TestChatRepository_GetChatForParticipant(t *testing.T) {
	req := require.New(t)
	chats, users := setupChatRepository(t)
	ids := newUsers(t, users, "alice", "bob", "carol")
	chat, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: ids[0], ParticipantIDs: []string{ids[1]}})
	req.NoError(err)

	found, err := chats.GetChatForParticipant(chat.ID, ids[1])
	req.NoError(err)
	req.Equal(chat.ID, found.ID)

	// An outsider cannot tell the chat from a missing one
	_, err = chats.GetChatForParticipant(chat.ID, ids[2])
	req.ErrorIs(err, errors.ErrNotFound)
	_, err = chats.GetChatForParticipant(uuid.New(), ids[0])
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestChatRepository_ListChatsForUser_SortedAndNamed(t *testing.T) {
	req := require.New(t)
	chats, users := setupChatRepository(t)
	ids := newUsers(t, users, "alice", "bob", "carol")
	alice, bob, carol := ids[0], ids[1], ids[2]

	withBob, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: alice, ParticipantIDs: []string{bob}})
	req.NoError(err)
	withCarol, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: alice, ParticipantIDs: []string{carol}})
	req.NoError(err)
	group, err := chats.CreateChat(domain.CreateChatCommand{RequesterID: bob, Name: "weekend", IsGroup: true, ParticipantIDs: []string{alice, carol}})
	req.NoError(err)

	now := time.Now()
	req.NoError(chats.TouchLastActivity(withBob.ID, now.Add(-time.Hour)))
	req.NoError(chats.TouchLastActivity(group.ID, now))

	listed, err := chats.ListChatsForUser(alice)
	req.NoError(err)
	req.Equal([]uuid.UUID{group.ID, withBob.ID, withCarol.ID},
		lo.Map(listed, func(c domain.Chat, _ int) uuid.UUID { return c.ID }))

	// Private chats are named after the peer, group names are kept
	req.Equal("weekend", listed[0].Name)
	req.Equal("bob", listed[1].Name)
	req.Equal("carol", listed[2].Name)
	req.Nil(listed[2].LastActivityAt)

	// Bob sees the same private chat under Alice's name
	bobChats, err := chats.ListChatsForUser(bob)
	req.NoError(err)
	named := lo.Associate(bobChats, func(c domain.Chat) (uuid.UUID, string) { return c.ID, c.Name })
	req.Equal("alice", named[withBob.ID])

	// The stored chat keeps an empty name
	stored, err := chats.GetChatForParticipant(withBob.ID, alice)
	req.NoError(err)
	req.Empty(stored.Name)
}

func TestChatRepository_ListChatsForUser_Empty(t *testing.T) {
	req := require.New(t)
	chats, _ := setupChatRepository(t)

	listed, err := chats.ListChatsForUser(uuid.NewString())
	req.NoError(err)
	req.NotNil(listed)
	req.Empty(listed)
}

func TestChatRepository_TouchLastActivity_MissingChat(t *testing.T) {
	chats, _ := setupChatRepository(t)
	require.ErrorIs(t, chats.TouchLastActivity(uuid.New(), time.Now()), errors.ErrNotFound)
}
