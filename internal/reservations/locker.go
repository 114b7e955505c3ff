package reservations

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Locker serializes reservations per performance. Lock takes every id in
// ascending order and returns a function that releases them.
type Locker interface {
	Lock(ctx context.Context, performanceIDs []uuid.UUID) (unlock func(), err error)
}

// sortedUnique returns the ids in the order every locker acquires them
func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(out)
}

type slot struct {
	ch   chan struct{}
	refs int
}

// localLocker is a keyed mutex living in this process
type localLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

func NewLocalLocker() Locker {
	return &localLocker{slots: make(map[uuid.UUID]*slot)}
}

func (l *localLocker) Lock(ctx context.Context, performanceIDs []uuid.UUID) (func(), error) {
	ids := sortedUnique(performanceIDs)
	held := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if err := l.acquire(ctx, id); err != nil {
			l.releaseAll(held)
			return nil, err
		}
		held = append(held, id)
	}

	var once sync.Once
	return func() { once.Do(func() { l.releaseAll(held) }) }, nil
}

func (l *localLocker) acquire(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	s, ok := l.slots[id]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[id] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(id, false)
		return ctx.Err()
	}
}

func (l *localLocker) releaseAll(ids []uuid.UUID) {
	for i := len(ids) - 1; i >= 0; i-- {
		l.release(ids[i], true)
	}
}

func (l *localLocker) release(id uuid.UUID, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.slots[id]
	if held {
		<-s.ch
	}
	s.refs--
	if s.refs == 0 {
		delete(l.slots, id)
	}
}

// ChainLockers acquires each locker in turn and releases them in reverse
func ChainLockers(lockers ...Locker) Locker {
	return chain(lockers)
}

type chain []Locker

func (c chain) Lock(ctx context.Context, performanceIDs []uuid.UUID) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	unlockAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, locker := range c {
		unlock, err := locker.Lock(ctx, performanceIDs)
		if err != nil {
			unlockAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return unlockAll, nil
}
