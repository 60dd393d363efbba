package usecase

import (
	"nasu-match/internal/domain/matching"
	"nasu-match/internal/metrics"
)

type MatchingUsecase interface {
	Score(c matching.Candidate, j matching.Job) matching.Result
}

type Matching struct {
	scorer *matching.Scorer
}

func NewMatchingUsecase(scorer *matching.Scorer) *Matching {
	if scorer == nil {
		scorer = matching.NewScorer(matching.Weights{})
	}
	return &Matching{scorer: scorer}
}

func (u *Matching) Score(c matching.Candidate, j matching.Job) matching.Result {
	res := u.scorer.Score(c, j)
	metrics.MatchScores.Observe(float64(res.Score))
	return res
}
