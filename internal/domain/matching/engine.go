package matching

import "math"

const (
	ReasonSalary   = "salary match"
	ReasonCategory = "category match"
	ReasonSkill    = "skill match"
	ReasonLocation = "location match"
)

type Candidate struct {
	DesiredSalary     int
	DesiredCategories []string
	Skills            []string
	Location          string
}

type Job struct {
	MaxSalary      int
	Category       string
	RequiredSkills []string
	Location       string
}

type Result struct {
	Score   int
	Reasons []string
}

// Weights are the points each rule contributes. The skill rule adds
// SkillPerMatch for every shared skill up to SkillCap.
type Weights struct {
	Salary        float64
	Category      float64
	SkillPerMatch float64
	SkillCap      float64
	Location      float64
	Ceiling       int
}

func DefaultWeights() Weights {
	return Weights{
		Salary:        30,
		Category:      25,
		SkillPerMatch: 5,
		SkillCap:      20,
		Location:      15,
		Ceiling:       99,
	}
}

// Merge fills zero fields of w from DefaultWeights.
func (w Weights) Merge() Weights {
	d := DefaultWeights()
	if w.Salary == 0 {
		w.Salary = d.Salary
	}
	if w.Category == 0 {
		w.Category = d.Category
	}
	if w.SkillPerMatch == 0 {
		w.SkillPerMatch = d.SkillPerMatch
	}
	if w.SkillCap == 0 {
		w.SkillCap = d.SkillCap
	}
	if w.Location == 0 {
		w.Location = d.Location
	}
	if w.Ceiling == 0 {
		w.Ceiling = d.Ceiling
	}
	return w
}

type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w.Merge()}
}

func (s *Scorer) Weights() Weights {
	if s == nil {
		return DefaultWeights()
	}
	return s.weights
}

// Score is pure: the same candidate and job always give the same result.
func (s *Scorer) Score(c Candidate, j Job) Result {
	w := s.Weights()

	reasons := make([]string, 0, 4)
	var total float64

	if j.MaxSalary >= c.DesiredSalary {
		total += w.Salary
		reasons = append(reasons, ReasonSalary)
	}

	if j.Category != "" && contains(c.DesiredCategories, j.Category) {
		total += w.Category
		reasons = append(reasons, ReasonCategory)
	}

	if k := overlap(c.Skills, j.RequiredSkills); k > 0 {
		total += math.Min(w.SkillCap, w.SkillPerMatch*float64(k))
		reasons = append(reasons, ReasonSkill)
	}

	if c.Location != "" && j.Location != "" && c.Location == j.Location {
		total += w.Location
		reasons = append(reasons, ReasonLocation)
	}

	return Result{Score: clampInt(int(math.Round(total)), 0, w.Ceiling), Reasons: reasons}
}

// Score runs the default weights.
func Score(c Candidate, j Job) Result {
	return NewScorer(Weights{}).Score(c, j)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// overlap counts distinct values present in both a and b.
func overlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inA := make(map[string]struct{}, len(a))
	for _, s := range a {
		if s == "" {
			continue
		}
		inA[s] = struct{}{}
	}

	seen := make(map[string]struct{}, len(b))
	n := 0
	for _, s := range b {
		if _, ok := inA[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		n++
	}
	return n
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
