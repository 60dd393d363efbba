package lead

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

const DefaultMultiplier = 3

var ErrCounterOverflow = errors.New("lead counter overflow")

// Counter is the per-store lead total. TotalPotentialMatches is always
// TotalActualMatches times the configured multiplier.
type Counter struct {
	StoreID               string
	TotalActualMatches    int64
	TotalPotentialMatches int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type MatchEvent struct {
	ID           uuid.UUID
	StoreID      string
	UserID       string
	MatchScore   int
	IsApproached bool
	MatchedAt    time.Time
}

// Increment is one recorded match batch for a store.
type Increment struct {
	StoreID   string
	Actual    int64
	Potential int64
	Event     MatchEvent
}

// MaxActual is the largest actual count whose potential still fits in int64.
func MaxActual(multiplier int) int64 {
	if multiplier < 1 {
		multiplier = DefaultMultiplier
	}
	return math.MaxInt64 / int64(multiplier)
}

// Potential applies the display boost to an actual match count. Callers
// keep actual within MaxActual.
func Potential(actual int64, multiplier int) int64 {
	if multiplier < 1 {
		multiplier = DefaultMultiplier
	}
	if actual <= 0 {
		return 0
	}
	return actual * int64(multiplier)
}

// Apply adds inc to c, refusing any total that would leave int64.
func (c Counter) Apply(inc Increment) (Counter, error) {
	if inc.Actual < 0 || inc.Potential < 0 ||
		c.TotalActualMatches > math.MaxInt64-inc.Actual ||
		c.TotalPotentialMatches > math.MaxInt64-inc.Potential {
		return c, ErrCounterOverflow
	}
	c.TotalActualMatches += inc.Actual
	c.TotalPotentialMatches += inc.Potential
	return c, nil
}
