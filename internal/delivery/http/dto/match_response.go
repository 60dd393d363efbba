package dto

type MatchScoreResponse struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}
