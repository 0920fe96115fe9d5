// Package domain contains core concepts of the chat system.
// This file defines participant sets and the private chat invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"chat-hub/errors"
	"fmt"
	"sort"

	"github.com/scylladb/go-set/strset"
)

// PrivateChatSize is the exact number of participants of a non-group chat.
const PrivateChatSize = 2

// ParticipantSet returns the union of the requested participants and the requester,
// duplicates collapsed, sorted for a stable representation.
func ParticipantSet(requesterID string, participantIDs []string) []string {
	set := strset.New(participantIDs...)
	set.Add(requesterID)
	participants := set.List()
	sort.Strings(participants)
	return participants
}

// ValidateParticipants checks the size rule of private chats.
// Group chats have no ceiling.
func ValidateParticipants(isGroup bool, participants []string) error {
	if len(participants) == 0 {
		return fmt.Errorf("%w: empty participant set", errors.ErrInvalidParticipantCount)
	}
	if !isGroup && len(participants) != PrivateChatSize {
		return fmt.Errorf("%w: private chat must have exactly %d participants, got %d",
			errors.ErrInvalidParticipantCount, PrivateChatSize, len(participants))
	}
	return nil
}

// PairKey canonicalizes an unordered pair of user ids.
// Two private chats with the same PairKey are the same chat.
func PairKey(participants []string) (string, error) {
	if len(participants) != PrivateChatSize {
		return "", errors.ErrInvalidParticipantCount
	}
	a, b := participants[0], participants[1]
	if a > b {
		a, b = b, a
	}
	return a + ":" + b, nil
}

// SameParticipants reports whether both slices hold the same set of ids.
func SameParticipants(a, b []string) bool {
	return strset.New(a...).IsEqual(strset.New(b...))
}
