package assessment

import (
	"math"
	"strings"
)

const (
	CriterionCoverage = "coverage"
	CriterionDepth    = "depth"

	wordsForFullDepth = 60
)

type Evaluation struct {
	Score    float64
	Feedback string
	Criteria map[string]float64
}

// Evaluator scores a single answer on a 0-10 scale.
type Evaluator func(question Question, answer string) Evaluation

// KeywordEvaluator scores answers by how many of the question keywords they
// mention, weighted with answer length. It stands in for a real grader.
func KeywordEvaluator(question Question, answer string) Evaluation {
	normalized := strings.ToLower(answer)
	words := len(strings.Fields(answer))
	depth := round1(math.Min(10, 10*float64(words)/wordsForFullDepth))

	if len(question.Keywords) == 0 {
		return Evaluation{
			Score:    depth,
			Feedback: depthFeedback(depth),
			Criteria: map[string]float64{CriterionDepth: depth},
		}
	}

	var missing []string
	for _, keyword := range question.Keywords {
		if !strings.Contains(normalized, keyword) {
			missing = append(missing, keyword)
		}
	}
	matched := len(question.Keywords) - len(missing)
	coverage := round1(10 * float64(matched) / float64(len(question.Keywords)))

	feedback := "Covers the key points."
	if len(missing) > 0 {
		feedback = "Consider mentioning: " + strings.Join(missing, ", ") + "."
	}

	return Evaluation{
		Score:    round1(0.7*coverage + 0.3*depth),
		Feedback: feedback,
		Criteria: map[string]float64{
			CriterionCoverage: coverage,
			CriterionDepth:    depth,
		},
	}
}

func depthFeedback(depth float64) string {
	if depth < 5 {
		return "Expand the answer with concrete examples."
	}
	return "Detailed answer."
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
