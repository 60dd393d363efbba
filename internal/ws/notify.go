package ws

import (
	"encoding/json"
	"strings"
	"time"
)

const EventLeadCountUpdated = "lead_count_updated"

type LeadCountEvent struct {
	Type           string `json:"type"`
	StoreID        string `json:"storeId"`
	PotentialCount int64  `json:"potentialCount"`
	Timestamp      string `json:"timestamp"`
}

// NotifyLeadCount publishes the store's new potential total.
func (h *Hub) NotifyLeadCount(storeID string, potential int64) {
	if h == nil {
		return
	}
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return
	}

	b, err := json.Marshal(LeadCountEvent{
		Type:           EventLeadCountUpdated,
		StoreID:        storeID,
		PotentialCount: potential,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	h.Broadcast(storeID, b)
}
