package cooldown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndArm(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return now }

	remaining, ready := s.CheckAndArm("user", "roll", 5*time.Second)
	require.True(t, ready, "first call arms")
	assert.Zero(t, remaining)

	now = now.Add(2 * time.Second)
	remaining, ready = s.CheckAndArm("user", "roll", 5*time.Second)
	require.False(t, ready, "second call inside the window")
	assert.Equal(t, 3*time.Second, remaining)

	// a rejected check must not have reset the window
	now = now.Add(time.Second)
	remaining, ready = s.CheckAndArm("user", "roll", 5*time.Second)
	require.False(t, ready)
	assert.Equal(t, 2*time.Second, remaining)

	now = now.Add(2 * time.Second)
	_, ready = s.CheckAndArm("user", "roll", 5*time.Second)
	assert.True(t, ready, "window elapsed, ready again")
}

func TestCheckAndArmIsolation(t *testing.T) {
	s := New()

	_, ready := s.CheckAndArm("alice", "roll", time.Minute)
	require.True(t, ready)

	_, ready = s.CheckAndArm("bob", "roll", time.Minute)
	assert.True(t, ready, "other users are unaffected")

	_, ready = s.CheckAndArm("alice", "ping", time.Minute)
	assert.True(t, ready, "other commands are unaffected")
}

func TestCheckAndArmZeroDuration(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		_, ready := s.CheckAndArm("user", "ping", 0)
		assert.True(t, ready)
	}
	assert.Zero(t, s.Len(), "zero-duration checks store nothing")
}

func TestCheckAndArmConcurrent(t *testing.T) {
	s := New()

	const callers = 64
	var wg sync.WaitGroup
	results := make([]bool, callers)
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = s.CheckAndArm("user", "roll", time.Minute)
		}(i)
	}
	close(start)
	wg.Wait()

	readyCount := 0
	for _, ok := range results {
		if ok {
			readyCount++
		}
	}
	assert.Equal(t, 1, readyCount, "exactly one concurrent caller may pass the gate")
}

func TestSweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return now }

	s.CheckAndArm("a", "roll", 5*time.Second)
	s.CheckAndArm("b", "roll", time.Hour)
	require.Equal(t, 2, s.Len())

	now = now.Add(10 * time.Second)
	s.sweep()
	assert.Equal(t, 1, s.Len(), "only the expired entry is swept")

	_, ready := s.CheckAndArm("b", "roll", time.Hour)
	assert.False(t, ready, "live entry survives the sweep")
}
