package keylock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"expohub/shared/keylock"
)

func TestKeyLock_MutualExclusion(t *testing.T) {
	locks := keylock.New()

	const goroutines = 50

	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()

			unlock := locks.Lock("exhibitor-1")
			defer unlock()

			counter++
		}()
	}

	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestKeyLock_IndependentKeys(t *testing.T) {
	locks := keylock.New()

	unlockA := locks.Lock("booth-a")

	done := make(chan struct{})

	go func() {
		unlockB := locks.Lock("booth-b")
		unlockB()
		close(done)
	}()

	// booth-b must not be blocked by the held booth-a lock.
	<-done

	unlockA()
}

func TestKeyLock_Reacquire(t *testing.T) {
	locks := keylock.New()

	unlock := locks.Lock("exhibitor-1")
	unlock()

	unlock = locks.Lock("exhibitor-1")
	unlock()
}
