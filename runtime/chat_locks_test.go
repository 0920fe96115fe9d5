package runtime

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChatLocks_Serializes_Same_Key(t *testing.T) {
	req := require.New(t)
	locks := NewChatLocks()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("chat-1")
			defer unlock()
			n := atomic.AddInt32(&inside, 1)
			for {
				current := atomic.LoadInt32(&maxInside)
				if n <= current || atomic.CompareAndSwapInt32(&maxInside, current, n) {
					break
				}
			}
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	req.Equal(int32(1), maxInside)
}

func TestChatLocks_Independent_Keys(t *testing.T) {
	req := require.New(t)
	locks := NewChatLocks()

	unlockFirst := locks.Lock("chat-1")
	done := make(chan struct{})
	go func() {
		// Another chat is not blocked by chat-1
		unlock := locks.Lock("chat-2")
		unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("chat-2 should not wait for chat-1")
	}
	unlockFirst()

	// A released key can be taken again
	unlock := locks.Lock("chat-1")
	unlock()
}
