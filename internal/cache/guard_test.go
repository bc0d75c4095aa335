package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunGuardSerializesSameFingerprint(t *testing.T) {
	guard := NewRunGuard()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := guard.Lock("same-fp")
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "holders of the same fingerprint must not overlap")
}

func TestRunGuardDistinctFingerprintsDoNotBlock(t *testing.T) {
	guard := NewRunGuard()

	unlockA := guard.Lock("fp-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := guard.Lock("fp-b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different fingerprint blocked")
	}
}

func TestRunGuardReclaimsEntries(t *testing.T) {
	guard := NewRunGuard()

	unlock := guard.Lock("fp")
	unlock()

	guard.mu.Lock()
	defer guard.mu.Unlock()
	assert.Empty(t, guard.locks, "released entries should be reclaimed")
}
