// Package cache keeps hot read models in redis.
package cache

import (
	"context"
	"eduverse/quiz"
	"eduverse/utils"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Leaderboard caches ranked quiz standings as one JSON value per quiz:
// SET leaderboard:{quizID} [...]
type Leaderboard struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

var _ quiz.LeaderboardCache = (*Leaderboard)(nil)

func NewLeaderboard(client *redis.Client, ttl time.Duration) *Leaderboard {
	return &Leaderboard{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Get returns the cached standings or fills the cache from load. Concurrent
// misses for the same quiz share one load. The fill only writes when the key
// is still absent, so a board loaded before a submission committed cannot
// replace the one Set stored after it.
func (l *Leaderboard) Get(ctx context.Context, quizID uint, load func(context.Context, uint) ([]quiz.Standing, error)) ([]quiz.Standing, error) {
	if s, ok := l.read(ctx, quizID); ok {
		return s, nil
	}

	result, err, _ := l.sf.Do(strconv.FormatUint(uint64(quizID), 10), func() (interface{}, error) {
		// another caller may have filled it meanwhile
		if s, ok := l.read(ctx, quizID); ok {
			return s, nil
		}

		s, err := load(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if err := l.fill(ctx, quizID, s); err != nil {
			utils.LogError("[CACHE] fill leaderboard %d: %v", quizID, err)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]quiz.Standing), nil
}

// Set replaces the cached standings of a quiz.
func (l *Leaderboard) Set(ctx context.Context, quizID uint, standings []quiz.Standing) error {
	data, err := encode(standings)
	if err != nil {
		return err
	}
	if err := l.client.Set(ctx, key(quizID), data, l.ttlWithJitter()).Err(); err != nil {
		return errors.Wrapf(err, "cache leaderboard %d", quizID)
	}
	return nil
}

func (l *Leaderboard) fill(ctx context.Context, quizID uint, standings []quiz.Standing) error {
	data, err := encode(standings)
	if err != nil {
		return err
	}
	if err := l.client.SetNX(ctx, key(quizID), data, l.ttlWithJitter()).Err(); err != nil {
		return errors.Wrapf(err, "fill leaderboard %d", quizID)
	}
	return nil
}

// Invalidate drops a quiz from the cache.
func (l *Leaderboard) Invalidate(ctx context.Context, quizID uint) error {
	if err := l.client.Del(ctx, key(quizID)).Err(); err != nil {
		return errors.Wrapf(err, "invalidate leaderboard %d", quizID)
	}
	return nil
}

func encode(standings []quiz.Standing) ([]byte, error) {
	if standings == nil {
		standings = []quiz.Standing{}
	}
	data, err := sonic.Marshal(standings)
	if err != nil {
		return nil, errors.Wrap(err, "encode standings")
	}
	return data, nil
}

func (l *Leaderboard) read(ctx context.Context, quizID uint) ([]quiz.Standing, bool) {
	data, err := l.client.Get(ctx, key(quizID)).Bytes()
	if err != nil {
		return nil, false
	}
	var s []quiz.Standing
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return s, true
}

func key(quizID uint) string {
	return "leaderboard:" + strconv.FormatUint(uint64(quizID), 10)
}

func (l *Leaderboard) ttlWithJitter() time.Duration {
	if l.ttl <= 0 {
		return 0
	}
	jitterMax := int64(l.ttl) / 10
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ttl + time.Duration(l.rnd.Int63n(jitterMax+1))
}
