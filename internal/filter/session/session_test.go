package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateGetRemove(t *testing.T) {
	m := NewManager(time.Hour, time.Hour)
	var counts []int
	m.OnCount(func(n int) { counts = append(counts, n) })

	s := m.Create("issues")
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "issues", s.Domain)
	assert.Same(t, s, m.Get(s.ID))
	assert.Equal(t, 1, m.Count())

	cancelled := false
	s.Attach(nil, func() { cancelled = true })
	m.Remove(s.ID)
	assert.Nil(t, m.Get(s.ID))
	assert.True(t, cancelled)
	assert.Equal(t, []int{1, 0}, counts)
}

func TestManager_ExpiresIdle(t *testing.T) {
	m := NewManager(time.Hour, 10*time.Millisecond)
	s := m.Create("vendors")
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, m.Get(s.ID))
	assert.Equal(t, 0, m.Count())
}

func TestManager_CleanupKeepsActive(t *testing.T) {
	m := NewManager(time.Hour, 30*time.Millisecond)
	stale := m.Create("issues")
	time.Sleep(40 * time.Millisecond)
	fresh := m.Create("issues")

	assert.Equal(t, 1, m.Cleanup())
	assert.Nil(t, m.Get(stale.ID))
	assert.NotNil(t, m.Get(fresh.ID))
}

func TestManager_RunStopsWithContext(t *testing.T) {
	m := NewManager(time.Millisecond, time.Hour)
	m.Create("issues")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestSession_History(t *testing.T) {
	s := NewSession("issues")
	before := s.LastActiveAt()
	time.Sleep(time.Millisecond)
	s.AddHistory("status=OPEN")
	s.AddHistory("search=brake&status=OPEN")
	assert.Equal(t, []string{"status=OPEN", "search=brake&status=OPEN"}, s.History())
	assert.True(t, s.LastActiveAt().After(before))
}
