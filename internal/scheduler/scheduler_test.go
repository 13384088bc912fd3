package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTier struct {
	name     string
	data     map[string][]byte
	loadErr  error
	storeErr error
}

func newMemTier(name string) *memTier {
	return &memTier{name: name, data: make(map[string][]byte)}
}

func (t *memTier) Name() string { return t.name }

func (t *memTier) Load(_ context.Context, key string) ([]byte, error) {
	if t.loadErr != nil {
		return nil, t.loadErr
	}
	b, ok := t.data[key]
	if !ok {
		return nil, errors.New("no snapshot")
	}
	return b, nil
}

func (t *memTier) Store(_ context.Context, key string, data []byte) error {
	if t.storeErr != nil {
		return t.storeErr
	}
	t.data[key] = data
	return nil
}

func TestRunOnceSuccessPersistsToAllTiers(t *testing.T) {
	fast := newMemTier("fast")
	slow := newMemTier("slow")
	s := New("report", time.Hour, func(ctx context.Context) (string, error) {
		return "fresh", nil
	}, []Tier{fast, slow}, nil, nil)
	defer s.Stop()

	s.RunOnce(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, "fresh", snap.Data)
	assert.False(t, snap.LastUpdated.IsZero())
	assert.Empty(t, snap.Err)

	for _, tier := range []*memTier{fast, slow} {
		raw, ok := tier.data["report"]
		require.True(t, ok, "tier %s", tier.name)
		var env persisted[string]
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, "fresh", env.Data)
		assert.Equal(t, snap.LastUpdated.Unix(), env.LastUpdated.Unix())
	}
}

func TestRunOnceSkipKeepsPreviousState(t *testing.T) {
	runs := 0
	s := New("report", time.Hour, func(ctx context.Context) (string, error) {
		runs++
		if runs == 1 {
			return "first", nil
		}
		return "", ErrSkipRun
	}, nil, nil, nil)
	defer s.Stop()

	s.RunOnce(context.Background())
	before := s.Snapshot()

	s.RunOnce(context.Background())
	after := s.Snapshot()

	assert.Equal(t, StatusIdle, after.Status)
	assert.Equal(t, "first", after.Data)
	assert.Equal(t, before.LastUpdated, after.LastUpdated, "a skipped run must not advance freshness")
}

func TestRunOnceErrorKeepsLastGoodData(t *testing.T) {
	runs := 0
	s := New("report", time.Hour, func(ctx context.Context) (string, error) {
		runs++
		if runs == 1 {
			return "good", nil
		}
		return "", errors.New("upstream exploded")
	}, nil, nil, nil)
	defer s.Stop()

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "good", snap.Data, "stale data beats no data")
	assert.Equal(t, "upstream exploded", snap.Err)
	assert.False(t, snap.NextRunAt.IsZero(), "failed runs still reschedule")
}

func TestRestoreFallsThroughTiers(t *testing.T) {
	broken := newMemTier("fast")
	broken.loadErr = errors.New("connection refused")

	good := newMemTier("slow")
	env := persisted[string]{Data: "warm", LastUpdated: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	good.data["report"] = raw

	s := New[string]("report", time.Hour, nil, []Tier{broken, good}, nil, nil)
	s.restore(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, "warm", snap.Data)
	assert.Equal(t, env.LastUpdated, snap.LastUpdated)
}

func TestRestoreIgnoresCorruptSnapshot(t *testing.T) {
	tier := newMemTier("fast")
	tier.data["report"] = []byte("{not json")

	s := New[string]("report", time.Hour, nil, []Tier{tier}, nil, nil)
	s.restore(context.Background())

	snap := s.Snapshot()
	assert.Empty(t, snap.Data)
	assert.True(t, snap.LastUpdated.IsZero())
}

func TestRunOnceDropsOverlappingTrigger(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	runs := 0
	s := New("report", time.Hour, func(ctx context.Context) (int, error) {
		runs++
		close(started)
		<-block
		return runs, nil
	}, nil, nil, nil)
	defer s.Stop()

	done := make(chan struct{})
	go func() {
		s.RunOnce(context.Background())
		close(done)
	}()
	<-started

	// A second trigger while the first is in flight must be a no-op.
	s.RunOnce(context.Background())
	assert.Equal(t, 1, runs)

	close(block)
	<-done
}

func TestStopPreventsReschedule(t *testing.T) {
	s := New("report", 10*time.Millisecond, func(ctx context.Context) (int, error) {
		return 1, nil
	}, nil, nil, nil)

	s.Stop()
	s.RunOnce(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Nil(t, s.timer, "stopped scheduler must not arm a timer")
}
