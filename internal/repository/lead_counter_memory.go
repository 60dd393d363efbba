package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"nasu-match/internal/domain/lead"

	"github.com/google/uuid"
)

// MemoryLeadCounterRepository keeps counters in process. It backs
// STORE_DRIVER=memory for local runs and tests; data is lost on restart.
type MemoryLeadCounterRepository struct {
	mu       sync.Mutex
	counters map[string]lead.Counter
	events   map[string][]lead.MatchEvent
	now      func() time.Time
}

func NewMemoryLeadCounterRepository() *MemoryLeadCounterRepository {
	return &MemoryLeadCounterRepository{
		counters: make(map[string]lead.Counter),
		events:   make(map[string][]lead.MatchEvent),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryLeadCounterRepository) Increment(ctx context.Context, inc lead.Increment) (lead.Counter, error) {
	if err := ctx.Err(); err != nil {
		return lead.Counter{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	c, ok := r.counters[inc.StoreID]
	if !ok {
		c = lead.Counter{StoreID: inc.StoreID, CreatedAt: now}
	}
	c, err := c.Apply(inc)
	if err != nil {
		return lead.Counter{}, err
	}
	c.UpdatedAt = now
	r.counters[inc.StoreID] = c

	if strings.TrimSpace(inc.Event.UserID) != "" {
		ev := inc.Event
		ev.StoreID = inc.StoreID
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		if ev.MatchedAt.IsZero() {
			ev.MatchedAt = now
		}
		r.events[inc.StoreID] = append(r.events[inc.StoreID], ev)
	}

	return c, nil
}

func (r *MemoryLeadCounterRepository) FindByStoreID(ctx context.Context, storeID string) (lead.Counter, error) {
	if err := ctx.Err(); err != nil {
		return lead.Counter{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counters[storeID]
	if !ok {
		return lead.Counter{}, ErrCounterNotFound
	}
	return c, nil
}

func (r *MemoryLeadCounterRepository) ListEvents(ctx context.Context, storeID string, limit int) ([]lead.MatchEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	src := r.events[storeID]
	out := make([]lead.MatchEvent, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchedAt.After(out[j].MatchedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryLeadCounterRepository) MarkApproached(ctx context.Context, storeID string, eventID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evs := r.events[storeID]
	for i := range evs {
		if evs[i].ID == eventID {
			evs[i].IsApproached = true
			return nil
		}
	}
	return ErrMatchEventNotFound
}
