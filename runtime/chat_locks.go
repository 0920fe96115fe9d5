package runtime

import "github.com/moby/locker"

// ChatLocks serializes work per chat. Entries are ref-counted and dropped once nobody holds
// or waits for them.
type ChatLocks struct {
	locker *locker.Locker
}

func NewChatLocks() *ChatLocks {
	return &ChatLocks{locker: locker.New()}
}

// Lock blocks until key is free and returns the matching unlock function.
func (c *ChatLocks) Lock(key string) func() {
	c.locker.Lock(key)
	return func() {
		// Unlock only fails for a key that is not locked, which this closure cannot produce
		_ = c.locker.Unlock(key)
	}
}
