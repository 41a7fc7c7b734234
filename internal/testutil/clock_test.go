package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestStepClock_FirstNowReturnsStart(t *testing.T) {
	clock := NewStepClock(epoch, time.Second)
	assert.Equal(t, epoch, clock.Now())
}

func TestStepClock_Advances(t *testing.T) {
	clock := NewStepClock(epoch, time.Minute)

	assert.Equal(t, epoch, clock.Now())
	assert.Equal(t, epoch.Add(time.Minute), clock.Now())
	assert.Equal(t, epoch.Add(2*time.Minute), clock.Now())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(epoch, time.Second)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, epoch, clock.Now())
}

func TestStepClock_ConcurrentAccess(t *testing.T) {
	clock := NewStepClock(epoch, time.Second)

	const goroutines = 50
	var wg sync.WaitGroup
	seen := make(chan time.Time, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		unique[ts] = true
	}
	require.Len(t, unique, goroutines)
	assert.Equal(t, epoch.Add(goroutines*time.Second), clock.Now())
}
