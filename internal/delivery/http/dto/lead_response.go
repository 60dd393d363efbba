package dto

import (
	"time"

	"github.com/google/uuid"
)

// LeadCountResponse is the flat body of the record and count endpoints.
type LeadCountResponse struct {
	Message        string `json:"message"`
	PotentialCount int64  `json:"potentialCount"`
}

type LeadCounterResponse struct {
	StoreID               string    `json:"storeId"`
	TotalActualMatches    int64     `json:"totalActualMatches"`
	TotalPotentialMatches int64     `json:"totalPotentialMatches"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type MatchEventResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"userId"`
	MatchScore   int       `json:"matchScore"`
	Timestamp    time.Time `json:"timestamp"`
	IsApproached bool      `json:"isApproached"`
}
