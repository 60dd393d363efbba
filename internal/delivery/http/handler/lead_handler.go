package handler

import (
	"errors"
	"strconv"
	"strings"

	"nasu-match/internal/delivery/http/dto"
	"nasu-match/internal/delivery/http/middleware"
	"nasu-match/internal/pkg/response"
	"nasu-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const MessageLeadRecorded = "lead recorded"

type LeadHandler struct {
	uc usecase.LeadUsecase
}

// Pointer fields tell a missing key apart from a zero value.
type recordLeadRequest struct {
	StoreID       *string `json:"storeId"`
	ActualCount   *int    `json:"actualCount"`
	MatchedUserID *string `json:"matchedUserId"`
	MatchScore    *int    `json:"matchScore"`
}

func (r recordLeadRequest) validate() string {
	var missing []string
	if r.StoreID == nil || strings.TrimSpace(*r.StoreID) == "" {
		missing = append(missing, "storeId")
	}
	if r.ActualCount == nil {
		missing = append(missing, "actualCount")
	}
	if r.MatchedUserID == nil || strings.TrimSpace(*r.MatchedUserID) == "" {
		missing = append(missing, "matchedUserId")
	}
	if len(missing) > 0 {
		return "missing required fields: " + strings.Join(missing, ", ")
	}
	if *r.ActualCount < 0 {
		return "actualCount must be a non-negative integer"
	}
	return ""
}

func NewLeadHandler(uc usecase.LeadUsecase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

func (h *LeadHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/leads")
	grp.Post("/record", h.Record)
	grp.Get("/count", h.Count)
	grp.Get("/stores/:store_id", h.GetCounter)
	grp.Get("/stores/:store_id/matches", h.ListMatches)
	grp.Post("/stores/:store_id/matches/:event_id/approach", h.MarkApproached)
}

func (h *LeadHandler) Record(c fiber.Ctx) error {
	var req recordLeadRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "actualCount must be numeric and the body valid JSON", nil, err)
	}
	if reason := req.validate(); reason != "" {
		return middleware.NewAppError(fiber.StatusBadRequest, reason, nil, nil)
	}

	in := usecase.RecordLeadInput{
		StoreID:       *req.StoreID,
		ActualCount:   *req.ActualCount,
		MatchedUserID: *req.MatchedUserID,
	}
	if req.MatchScore != nil {
		in.MatchScore = *req.MatchScore
	}

	potential, err := h.uc.Record(c.Context(), in)
	if err != nil {
		return mapLeadUsecaseError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.LeadCountResponse{
		Message:        MessageLeadRecorded,
		PotentialCount: potential,
	})
}

// Count always answers 200 once storeId is present; see LeadUsecase.GetCount.
func (h *LeadHandler) Count(c fiber.Ctx) error {
	storeID := strings.TrimSpace(c.Query("storeId"))
	if storeID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "missing required query parameter: storeId", nil, nil)
	}

	return c.Status(fiber.StatusOK).JSON(dto.LeadCountResponse{
		Message:        response.MessageOK,
		PotentialCount: h.uc.GetCount(c.Context(), storeID),
	})
}

func (h *LeadHandler) GetCounter(c fiber.Ctx) error {
	ctr, err := h.uc.GetCounter(c.Context(), c.Params("store_id"))
	if err != nil {
		return mapLeadUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.LeadCounterResponse{
		StoreID:               ctr.StoreID,
		TotalActualMatches:    ctr.TotalActualMatches,
		TotalPotentialMatches: ctr.TotalPotentialMatches,
		CreatedAt:             ctr.CreatedAt,
		UpdatedAt:             ctr.UpdatedAt,
	})
}

func (h *LeadHandler) ListMatches(c fiber.Ctx) error {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "limit must be a non-negative integer", nil, err)
		}
		limit = v
	}

	evs, err := h.uc.ListMatches(c.Context(), c.Params("store_id"), limit)
	if err != nil {
		return mapLeadUsecaseError(err)
	}

	out := make([]dto.MatchEventResponse, 0, len(evs))
	for _, ev := range evs {
		out = append(out, dto.MatchEventResponse{
			ID:           ev.ID,
			UserID:       ev.UserID,
			MatchScore:   ev.MatchScore,
			Timestamp:    ev.MatchedAt,
			IsApproached: ev.IsApproached,
		})
	}
	return response.List(c, out, len(out), limit)
}

func (h *LeadHandler) MarkApproached(c fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid match id", nil, err)
	}

	if err := h.uc.MarkApproached(c.Context(), c.Params("store_id"), eventID); err != nil {
		return mapLeadUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapLeadUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrStoreNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "store not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "match not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
