package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	l := New()

	const workers = 50
	var counter int
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			l.Lock("room-1|2026-03-15")
			counter++
			l.Unlock("room-1|2026-03-15")
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	l := New()

	l.Lock("a")
	done := make(chan struct{})
	go func() {
		l.Lock("b")
		l.Unlock("b")
		close(done)
	}()
	<-done
	l.Unlock("a")
}

func TestEntriesAreReclaimed(t *testing.T) {
	l := New()

	l.Lock("k")
	l.Unlock("k")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks)
}

func TestUnlockUnheldKeyPanics(t *testing.T) {
	l := New()
	assert.Panics(t, func() { l.Unlock("never-locked") })
}
