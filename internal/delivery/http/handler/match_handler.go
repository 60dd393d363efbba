package handler

import (
	"nasu-match/internal/delivery/http/dto"
	"nasu-match/internal/delivery/http/middleware"
	"nasu-match/internal/domain/matching"
	"nasu-match/internal/pkg/response"
	"nasu-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

type candidateRequest struct {
	DesiredSalary     int      `json:"desiredSalary"`
	DesiredCategories []string `json:"desiredCategories"`
	Skills            []string `json:"skills"`
	Location          string   `json:"location"`
}

type jobRequest struct {
	MaxSalary      int      `json:"maxSalary"`
	Category       string   `json:"category"`
	RequiredSkills []string `json:"requiredSkills"`
	Location       string   `json:"location"`
}

type scoreRequest struct {
	Candidate *candidateRequest `json:"candidate"`
	Job       *jobRequest       `json:"job"`
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/matches")
	grp.Post("/score", h.Score)
}

func (h *MatchHandler) Score(c fiber.Ctx) error {
	var req scoreRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid JSON body", nil, err)
	}
	if req.Candidate == nil || req.Job == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "candidate and job are required", nil, nil)
	}

	res := h.uc.Score(
		matching.Candidate{
			DesiredSalary:     req.Candidate.DesiredSalary,
			DesiredCategories: req.Candidate.DesiredCategories,
			Skills:            req.Candidate.Skills,
			Location:          req.Candidate.Location,
		},
		matching.Job{
			MaxSalary:      req.Job.MaxSalary,
			Category:       req.Job.Category,
			RequiredSkills: req.Job.RequiredSkills,
			Location:       req.Job.Location,
		},
	)

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchScoreResponse{
		Score:   res.Score,
		Reasons: res.Reasons,
	})
}
