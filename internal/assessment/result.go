package assessment

import "sort"

const (
	strengthThreshold    = 7.0
	improvementThreshold = 5.0
)

type Result struct {
	SessionID      string
	OverallScore   float64
	CriteriaScores map[string]float64
	Strengths      []string
	Improvements   []string
	Answers        []Answer
}

// consolidate averages answer scores over all questions of the session, so
// unanswered questions count as zero. Criteria are the question categories.
func consolidate(sessionID string, questions []Question, answers []Answer) Result {
	scoreByQuestion := make(map[int64]float64, len(answers))
	for _, answer := range answers {
		scoreByQuestion[answer.QuestionID] = answer.Score
	}

	var total float64
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, question := range questions {
		score := scoreByQuestion[question.ID]
		total += score
		sums[question.Category] += score
		counts[question.Category]++
	}

	result := Result{
		SessionID:      sessionID,
		CriteriaScores: make(map[string]float64, len(sums)),
		Strengths:      []string{},
		Improvements:   []string{},
		Answers:        answers,
	}
	if len(questions) > 0 {
		result.OverallScore = round1(total / float64(len(questions)))
	}

	categories := make([]string, 0, len(sums))
	for category := range sums {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		mean := round1(sums[category] / float64(counts[category]))
		result.CriteriaScores[category] = mean
		switch {
		case mean >= strengthThreshold:
			result.Strengths = append(result.Strengths, category)
		case mean < improvementThreshold:
			result.Improvements = append(result.Improvements, category)
		}
	}
	return result
}
