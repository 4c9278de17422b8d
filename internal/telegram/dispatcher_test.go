package telegram

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherPreservesPerUserOrder(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	got := map[int64][]int{}
	for i := 0; i < 50; i++ {
		for user := int64(1); user <= 3; user++ {
			i, user := i, user
			d.Dispatch(user, func() {
				mu.Lock()
				got[user] = append(got[user], i)
				mu.Unlock()
			})
		}
	}
	d.Wait()

	for user := int64(1); user <= 3; user++ {
		assert.Len(t, got[user], 50)
		for i, v := range got[user] {
			if v != i {
				t.Fatalf("user %d task %d ran as %d", user, i, v)
			}
		}
	}
	assert.Equal(t, 0, d.Workers())
}

func TestDispatcherSerializesOneUser(t *testing.T) {
	d := NewDispatcher()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		d.Dispatch(7, func() {
			mu.Lock()
			running++
			maxSeen = max(maxSeen, running)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	d.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestDispatcherRunsUsersInParallel(t *testing.T) {
	d := NewDispatcher()
	release := make(chan struct{})
	started := make(chan int64, 2)

	for user := int64(1); user <= 2; user++ {
		user := user
		d.Dispatch(user, func() {
			started <- user
			<-release
		})
	}

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("second user blocked behind the first")
		}
	}
	close(release)
	d.Wait()
}
