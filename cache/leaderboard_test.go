package cache

import (
	"context"
	"eduverse/quiz"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func sampleStandings() []quiz.Standing {
	return []quiz.Standing{
		{StudentID: 3, Marks: 8, TimeTaken: 20, Rank: 1},
		{StudentID: 1, Marks: 5, TimeTaken: 40, Rank: 2},
	}
}

func TestLeaderboardReadThrough(t *testing.T) {
	_, client := newClient(t)
	lb := NewLeaderboard(client, time.Minute)

	var calls int32
	load := func(ctx context.Context, quizID uint) ([]quiz.Standing, error) {
		atomic.AddInt32(&calls, 1)
		return sampleStandings(), nil
	}

	got, err := lb.Get(context.Background(), 7, load)
	require.NoError(t, err)
	assert.Equal(t, sampleStandings(), got)

	got, err = lb.Get(context.Background(), 7, load)
	require.NoError(t, err)
	assert.Equal(t, sampleStandings(), got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLeaderboardConcurrentMissLoadsOnce(t *testing.T) {
	_, client := newClient(t)
	lb := NewLeaderboard(client, time.Minute)

	var calls int32
	release := make(chan struct{})
	load := func(ctx context.Context, quizID uint) ([]quiz.Standing, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return sampleStandings(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := lb.Get(context.Background(), 1, load)
			assert.NoError(t, err)
			assert.Len(t, got, 2)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLeaderboardSetOverridesAndExpires(t *testing.T) {
	mr, client := newClient(t)
	lb := NewLeaderboard(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, lb.Set(ctx, 2, sampleStandings()))
	assert.True(t, mr.Exists("leaderboard:2"))
	ttl := mr.TTL("leaderboard:2")
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, time.Minute+6*time.Second)

	require.NoError(t, lb.Set(ctx, 2, nil))
	got, err := lb.Get(ctx, 2, func(context.Context, uint) ([]quiz.Standing, error) {
		t.Fatal("loader must not run on a cache hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("leaderboard:2"))

	require.NoError(t, lb.Set(ctx, 2, sampleStandings()))
	require.NoError(t, lb.Invalidate(ctx, 2))
	assert.False(t, mr.Exists("leaderboard:2"))
}

func TestLeaderboardLoaderErrorIsReturned(t *testing.T) {
	_, client := newClient(t)
	lb := NewLeaderboard(client, 0)

	_, err := lb.Get(context.Background(), 3, func(context.Context, uint) ([]quiz.Standing, error) {
		return nil, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestLeaderboardMissDoesNotOverwriteNewerBoard(t *testing.T) {
	_, client := newClient(t)
	lb := NewLeaderboard(client, time.Minute)
	ctx := context.Background()

	fresh := sampleStandings()
	// the reader loads before a submission commits and the submission's
	// refresh lands before the reader stores what it loaded
	stale, err := lb.Get(ctx, 1, func(ctx context.Context, quizID uint) ([]quiz.Standing, error) {
		require.NoError(t, lb.Set(ctx, quizID, fresh))
		return []quiz.Standing{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, stale)

	got, err := lb.Get(ctx, 1, func(context.Context, uint) ([]quiz.Standing, error) {
		t.Fatal("loader must not run on a cache hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestLeaderboardMissStillLoadsWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { client.Close() })
	lb := NewLeaderboard(client, time.Minute)

	got, err := lb.Get(context.Background(), 4, func(context.Context, uint) ([]quiz.Standing, error) {
		return sampleStandings(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, sampleStandings(), got)
}
