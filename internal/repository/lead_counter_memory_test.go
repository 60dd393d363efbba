package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"nasu-match/internal/domain/lead"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIncrement_CreatesThenAccumulates(t *testing.T) {
	repo := NewMemoryLeadCounterRepository()
	ctx := context.Background()

	_, err := repo.FindByStoreID(ctx, "store1")
	assert.ErrorIs(t, err, ErrCounterNotFound)

	c, err := repo.Increment(ctx, lead.Increment{StoreID: "store1", Actual: 2, Potential: 6, Event: lead.MatchEvent{UserID: "u1"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.TotalActualMatches)
	assert.False(t, c.CreatedAt.IsZero())

	c, err = repo.Increment(ctx, lead.Increment{StoreID: "store1", Actual: 3, Potential: 9, Event: lead.MatchEvent{UserID: "u2"}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.TotalActualMatches)
	assert.Equal(t, int64(15), c.TotalPotentialMatches)

	evs, err := repo.ListEvents(ctx, "store1", 0)
	require.NoError(t, err)
	assert.Len(t, evs, 2)
}

func TestMemoryIncrement_ConcurrentNoLostUpdates(t *testing.T) {
	repo := NewMemoryLeadCounterRepository()
	ctx := context.Background()

	const writers = 64
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Increment(ctx, lead.Increment{
				StoreID: "store1", Actual: 1, Potential: 3,
				Event: lead.MatchEvent{UserID: fmt.Sprintf("u%d", i)},
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	c, err := repo.FindByStoreID(ctx, "store1")
	require.NoError(t, err)
	assert.Equal(t, int64(writers), c.TotalActualMatches)
	assert.Equal(t, 3*c.TotalActualMatches, c.TotalPotentialMatches)
}

func TestMemoryListEvents_NewestFirstWithLimit(t *testing.T) {
	repo := NewMemoryLeadCounterRepository()
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := repo.Increment(ctx, lead.Increment{
			StoreID: "s", Actual: 1, Potential: 3,
			Event: lead.MatchEvent{UserID: fmt.Sprintf("u%d", i), MatchedAt: base.Add(time.Duration(i) * time.Minute)},
		})
		require.NoError(t, err)
	}

	evs, err := repo.ListEvents(ctx, "s", 2)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, "u2", evs[0].UserID)
	assert.Equal(t, "u1", evs[1].UserID)
}

func TestMemoryMarkApproached(t *testing.T) {
	repo := NewMemoryLeadCounterRepository()
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.Increment(ctx, lead.Increment{StoreID: "s", Actual: 1, Potential: 3, Event: lead.MatchEvent{ID: id, UserID: "u"}})
	require.NoError(t, err)

	require.NoError(t, repo.MarkApproached(ctx, "s", id))
	evs, _ := repo.ListEvents(ctx, "s", 0)
	assert.True(t, evs[0].IsApproached)

	assert.ErrorIs(t, repo.MarkApproached(ctx, "other", id), ErrMatchEventNotFound)
	assert.ErrorIs(t, repo.MarkApproached(ctx, "s", uuid.New()), ErrMatchEventNotFound)
}

func TestMemory_CanceledContext(t *testing.T) {
	repo := NewMemoryLeadCounterRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Increment(ctx, lead.Increment{StoreID: "s", Actual: 1, Potential: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryIncrement_RefusesOverflow(t *testing.T) {
	repo := NewMemoryLeadCounterRepository()
	ctx := context.Background()
	top := lead.MaxActual(3)

	_, err := repo.Increment(ctx, lead.Increment{StoreID: "s", Actual: top, Potential: lead.Potential(top, 3)})
	require.NoError(t, err)

	_, err = repo.Increment(ctx, lead.Increment{StoreID: "s", Actual: 1, Potential: 3, Event: lead.MatchEvent{UserID: "u"}})
	assert.ErrorIs(t, err, lead.ErrCounterOverflow)

	c, err := repo.FindByStoreID(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, top, c.TotalActualMatches)
	assert.Positive(t, c.TotalPotentialMatches)

	evs, _ := repo.ListEvents(ctx, "s", 0)
	assert.Empty(t, evs)
}
