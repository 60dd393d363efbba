package usecase

import (
	"context"
	"strings"
)

// CountCache holds store totals. Totals only grow, so writers merge with
// SetMaxInt64 and a late write of an older total never replaces a newer one.
type CountCache interface {
	GetInt64(ctx context.Context, key string) (int64, bool, error)
	SetMaxInt64(ctx context.Context, key string, value int64) error
	Delete(ctx context.Context, key string) error
}

func LeadCountCacheKey(storeID string) string {
	return "leads:count:" + strings.TrimSpace(storeID)
}
