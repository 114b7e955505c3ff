package reservations

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"theatre/internal/shared/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedUnique(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	assert.Equal(t, []uuid.UUID{a, b}, sortedUnique([]uuid.UUID{b, a, b, a}))
}

func TestLocalLockerSerializesSamePerformance(t *testing.T) {
	locker := NewLocalLocker()
	id := uuid.New()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), []uuid.UUID{id})
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLockerAllowsOtherPerformances(t *testing.T) {
	locker := NewLocalLocker()

	unlockA, err := locker.Lock(context.Background(), []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	unlockB()
}

func TestLocalLockerHonoursContext(t *testing.T) {
	locker := NewLocalLocker()
	a, b := uuid.New(), uuid.New()

	unlock, err := locker.Lock(context.Background(), []uuid.UUID{b})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, []uuid.UUID{a, b})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The partial acquisition of a was rolled back
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	unlockA, err := locker.Lock(ctx2, []uuid.UUID{a})
	require.NoError(t, err)
	unlockA()

	unlock()
	unlock() // idempotent
}

func newRedisLocker(t *testing.T) (Locker, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, RedisLockConfig{
		TTL:          time.Second,
		Wait:         30 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}), mr, client
}

func TestRedisLockerBusyAndRelease(t *testing.T) {
	locker, mr, _ := newRedisLocker(t)
	id := uuid.New()
	key := constants.BuildPerformanceLockKey(id.String())

	unlock, err := locker.Lock(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	_, err = locker.Lock(context.Background(), []uuid.UUID{id})
	assert.ErrorIs(t, err, ErrLockBusy)

	unlock()
	assert.False(t, mr.Exists(key))

	unlock2, err := locker.Lock(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	unlock2()
}

func TestRedisLockerReleaseKeepsForeignLock(t *testing.T) {
	locker, mr, _ := newRedisLocker(t)
	id := uuid.New()
	key := constants.BuildPerformanceLockKey(id.String())

	unlock, err := locker.Lock(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)

	// Our lock expired and another replica took it over
	require.NoError(t, mr.Set(key, "someone-else"))
	unlock()

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLockerRollsBackPartialAcquisition(t *testing.T) {
	locker, mr, _ := newRedisLocker(t)
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	require.NoError(t, mr.Set(constants.BuildPerformanceLockKey(b.String()), "held"))

	_, err := locker.Lock(context.Background(), []uuid.UUID{b, a})
	assert.ErrorIs(t, err, ErrLockBusy)
	assert.False(t, mr.Exists(constants.BuildPerformanceLockKey(a.String())))
}

func TestChainLockersReleasesEarlierOnFailure(t *testing.T) {
	local := NewLocalLocker()
	redisLock, mr, _ := newRedisLocker(t)
	id := uuid.New()
	require.NoError(t, mr.Set(constants.BuildPerformanceLockKey(id.String()), "held"))

	_, err := ChainLockers(local, redisLock).Lock(context.Background(), []uuid.UUID{id})
	assert.ErrorIs(t, err, ErrLockBusy)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlock, err := local.Lock(ctx, []uuid.UUID{id})
	require.NoError(t, err)
	unlock()
}
