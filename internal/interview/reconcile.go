package interview

import (
	"cmp"
	"slices"
)

// Reconcile orders server questions by ID and derives the answer buffer and the
// initial cursor from them. It does not modify its input, and equal inputs give
// equal outputs.
func Reconcile(serverQuestions []Question) ([]Question, []string, int) {
	ordered := slices.Clone(serverQuestions)
	slices.SortStableFunc(ordered, func(a, b Question) int {
		return cmp.Compare(a.ID, b.ID)
	})

	answers := make([]string, len(ordered))
	cursor := -1
	for idx, question := range ordered {
		if question.Answered {
			answers[idx] = question.PreviousAnswer
			continue
		}
		if cursor < 0 {
			cursor = idx
		}
	}
	if cursor < 0 {
		cursor = 0
	}

	return ordered, answers, cursor
}

func firstUnanswered(questions []Question) int {
	for idx, question := range questions {
		if !question.Answered {
			return idx
		}
	}
	return -1
}
