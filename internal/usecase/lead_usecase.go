package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nasu-match/internal/domain/lead"
	"nasu-match/internal/logger"
	"nasu-match/internal/metrics"
	"nasu-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMatchesLimit = 50
	maxMatchesLimit     = 200
)

type RecordLeadInput struct {
	StoreID       string
	ActualCount   int
	MatchedUserID string
	MatchScore    int
}

type LeadUsecase interface {
	// Record returns the potential count added by this call, or the store's
	// current total when ActualCount is zero.
	Record(ctx context.Context, in RecordLeadInput) (int64, error)
	// GetCount never fails: a missing store or a storage fault reads as 0.
	GetCount(ctx context.Context, storeID string) int64
	GetCounter(ctx context.Context, storeID string) (lead.Counter, error)
	ListMatches(ctx context.Context, storeID string, limit int) ([]lead.MatchEvent, error)
	MarkApproached(ctx context.Context, storeID string, eventID uuid.UUID) error
}

type LeadNotifier interface {
	NotifyLeadCount(storeID string, potential int64)
}

type LeadOptions struct {
	Multiplier   int
	MatchesLimit int
}

type Lead struct {
	counters repository.LeadCounterRepository
	cache    CountCache
	notifier LeadNotifier
	logger   *zap.Logger
	opts     LeadOptions
}

func NewLeadUsecase(counters repository.LeadCounterRepository, cache CountCache, notifier LeadNotifier, log *zap.Logger, opts LeadOptions) *Lead {
	if opts.Multiplier < 1 {
		opts.Multiplier = lead.DefaultMultiplier
	}
	if opts.MatchesLimit <= 0 {
		opts.MatchesLimit = defaultMatchesLimit
	}
	return &Lead{counters: counters, cache: cache, notifier: notifier, logger: logger.OrNop(log), opts: opts}
}

func (u *Lead) Record(ctx context.Context, in RecordLeadInput) (int64, error) {
	storeID := strings.TrimSpace(in.StoreID)
	userID := strings.TrimSpace(in.MatchedUserID)
	if storeID == "" || userID == "" {
		return 0, fmt.Errorf("%w: storeId and matchedUserId are required", ErrInvalidInput)
	}
	if in.ActualCount < 0 {
		return 0, fmt.Errorf("%w: actualCount must not be negative", ErrInvalidInput)
	}
	if top := lead.MaxActual(u.opts.Multiplier); int64(in.ActualCount) > top {
		return 0, fmt.Errorf("%w: actualCount must not exceed %d", ErrInvalidInput, top)
	}

	if in.ActualCount == 0 {
		metrics.LeadsRecorded.WithLabelValues("noop").Inc()
		return u.GetCount(ctx, storeID), nil
	}

	actual := int64(in.ActualCount)
	potential := lead.Potential(actual, u.opts.Multiplier)

	c, err := u.counters.Increment(ctx, lead.Increment{
		StoreID:   storeID,
		Actual:    actual,
		Potential: potential,
		Event: lead.MatchEvent{
			StoreID:    storeID,
			UserID:     userID,
			MatchScore: in.MatchScore,
		},
	})
	if errors.Is(err, lead.ErrCounterOverflow) {
		metrics.LeadsRecorded.WithLabelValues("rejected").Inc()
		u.logger.Warn("lead record would overflow store totals", zap.String("store_id", storeID), zap.Int64("actual", actual))
		return 0, fmt.Errorf("%w: store totals would overflow", ErrInvalidInput)
	}
	if err != nil {
		metrics.LeadsRecorded.WithLabelValues("failed").Inc()
		u.logger.Error("lead record failed",
			zap.String("store_id", storeID),
			zap.Int64("actual", actual),
			zap.Error(err),
		)
		return 0, ErrInternal
	}

	metrics.LeadsRecorded.WithLabelValues("recorded").Inc()
	metrics.LeadActualMatches.Add(float64(actual))

	u.publishCount(ctx, storeID, c.TotalPotentialMatches)
	if u.notifier != nil {
		u.notifier.NotifyLeadCount(storeID, c.TotalPotentialMatches)
	}

	u.logger.Info("lead recorded",
		zap.String("store_id", storeID),
		zap.String("user_id", userID),
		zap.Int64("actual", actual),
		zap.Int64("potential", potential),
		zap.Int64("total_potential", c.TotalPotentialMatches),
	)
	return potential, nil
}

func (u *Lead) GetCount(ctx context.Context, storeID string) int64 {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return 0
	}
	key := LeadCountCacheKey(storeID)

	if u.cache != nil {
		v, ok, err := u.cache.GetInt64(ctx, key)
		if err != nil {
			u.logger.Warn("lead count cache read failed", zap.String("store_id", storeID), zap.Error(err))
		} else if ok {
			metrics.LeadCountReads.WithLabelValues("cache").Inc()
			return v
		}
	}

	c, err := u.counters.FindByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrCounterNotFound) {
			metrics.LeadCountReads.WithLabelValues("missing").Inc()
			return 0
		}
		metrics.LeadCountReads.WithLabelValues("failed").Inc()
		u.logger.Warn("lead count read failed, reporting zero", zap.String("store_id", storeID), zap.Error(err))
		return 0
	}

	metrics.LeadCountReads.WithLabelValues("store").Inc()
	if u.cache != nil {
		if err := u.cache.SetMaxInt64(ctx, key, c.TotalPotentialMatches); err != nil {
			u.logger.Debug("lead count cache write failed", zap.String("store_id", storeID), zap.Error(err))
		}
	}
	return c.TotalPotentialMatches
}

// publishCount raises the cached total after a write. If the merge fails the
// key is dropped so readers fall back to the store.
func (u *Lead) publishCount(ctx context.Context, storeID string, total int64) {
	if u.cache == nil {
		return
	}
	key := LeadCountCacheKey(storeID)
	if err := u.cache.SetMaxInt64(ctx, key, total); err != nil {
		u.logger.Warn("lead count cache update failed", zap.String("store_id", storeID), zap.Error(err))
		if err := u.cache.Delete(ctx, key); err != nil {
			u.logger.Warn("lead count cache invalidation failed", zap.String("store_id", storeID), zap.Error(err))
		}
	}
}

func (u *Lead) GetCounter(ctx context.Context, storeID string) (lead.Counter, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return lead.Counter{}, ErrInvalidInput
	}

	c, err := u.counters.FindByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrCounterNotFound) {
			return lead.Counter{}, ErrStoreNotFound
		}
		u.logger.Error("lead counter read failed", zap.String("store_id", storeID), zap.Error(err))
		return lead.Counter{}, ErrInternal
	}
	return c, nil
}

func (u *Lead) ListMatches(ctx context.Context, storeID string, limit int) ([]lead.MatchEvent, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = u.opts.MatchesLimit
	}
	if limit > maxMatchesLimit {
		limit = maxMatchesLimit
	}

	evs, err := u.counters.ListEvents(ctx, storeID, limit)
	if err != nil {
		u.logger.Error("match events read failed", zap.String("store_id", storeID), zap.Error(err))
		return nil, ErrInternal
	}
	return evs, nil
}

func (u *Lead) MarkApproached(ctx context.Context, storeID string, eventID uuid.UUID) error {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" || eventID == uuid.Nil {
		return ErrInvalidInput
	}

	if err := u.counters.MarkApproached(ctx, storeID, eventID); err != nil {
		if errors.Is(err, repository.ErrMatchEventNotFound) {
			return ErrMatchNotFound
		}
		u.logger.Error("mark approached failed", zap.String("store_id", storeID), zap.Error(err))
		return ErrInternal
	}
	return nil
}
