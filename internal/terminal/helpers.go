package terminal

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"interview-app/internal/backend"
	"interview-app/internal/interview"
)

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  show")
	fmt.Fprintln(out, "  list")
	fmt.Fprintln(out, "  goto <question number>")
	fmt.Fprintln(out, "  answer <text>")
	fmt.Fprintln(out, "  submit")
	fmt.Fprintln(out, "  status")
	fmt.Fprintln(out, "  generate")
	fmt.Fprintln(out, "  finish")
	fmt.Fprintln(out, "  exit")
}

func (s *session) showCurrent() {
	snapshot := s.controller.Snapshot()
	if snapshot.Phase == interview.PhaseGenerating {
		fmt.Fprintln(s.out, "No questions yet. Type 'generate' to create them.")
		return
	}

	question, ok := snapshot.CurrentQuestion()
	if !ok {
		return
	}

	fmt.Fprintf(s.out, "\nQuestion %d/%d", snapshot.Cursor+1, len(snapshot.Questions))
	if category := strings.TrimSpace(question.Category); category != "" {
		fmt.Fprintf(s.out, " [%s, difficulty %s]", category, formatScore(question.DifficultyScore))
	}
	fmt.Fprintf(s.out, "  time left %s\n", formatRemaining(snapshot.RemainingSeconds))
	fmt.Fprintln(s.out, question.Text)

	submitted := snapshot.Answers[snapshot.Cursor]
	if question.Answered {
		fmt.Fprintf(s.out, "Submitted answer: %s\n", submitted)
	}
	if snapshot.Draft != "" && (!question.Answered || snapshot.Draft != submitted) {
		fmt.Fprintf(s.out, "Draft: %s\n", snapshot.Draft)
	}
}

func (s *session) listQuestions() {
	snapshot := s.controller.Snapshot()
	if len(snapshot.Questions) == 0 {
		fmt.Fprintln(s.out, "No questions yet.")
		return
	}

	for idx, question := range snapshot.Questions {
		marker := " "
		if idx == snapshot.Cursor {
			marker = ">"
		}
		status := "[ ]"
		if question.Answered {
			status = "[x]"
		}
		fmt.Fprintf(s.out, "%s %2d. %s %s\n", marker, idx+1, status, question.Text)
	}
}

func (s *session) showStatus() {
	snapshot := s.controller.Snapshot()
	fmt.Fprintf(s.out, "Phase: %s\n", snapshot.Phase)
	if snapshot.Postulation.JobTitle != "" {
		fmt.Fprintf(s.out, "Postulation: %s at %s\n", snapshot.Postulation.JobTitle, snapshot.Postulation.CompanyName)
	}
	if snapshot.SessionID != "" {
		fmt.Fprintf(s.out, "Session: %s\n", snapshot.SessionID)
	}
	fmt.Fprintf(s.out, "Answered: %d/%d\n", snapshot.AnsweredCount(), len(snapshot.Questions))
	fmt.Fprintf(s.out, "Time left: %s\n", formatRemaining(snapshot.RemainingSeconds))
}

func printResult(out io.Writer, snapshot interview.Snapshot) {
	fmt.Fprintln(out, "\nInterview complete.")
	result := snapshot.Consolidated
	if result == nil {
		fmt.Fprintln(out, "Results are not available right now. Your submitted answers were saved.")
		return
	}

	fmt.Fprintf(out, "Overall score: %s/10\n", formatScore(result.OverallScore))
	if len(result.CriteriaScores) > 0 {
		fmt.Fprintln(out, "Criteria:")
		criteria := make([]string, 0, len(result.CriteriaScores))
		for name := range result.CriteriaScores {
			criteria = append(criteria, name)
		}
		slices.Sort(criteria)
		for _, name := range criteria {
			fmt.Fprintf(out, "  %s: %s\n", name, formatScore(result.CriteriaScores[name]))
		}
	}
	if len(result.Strengths) > 0 {
		fmt.Fprintf(out, "Strengths: %s\n", strings.Join(result.Strengths, ", "))
	}
	if len(result.Improvements) > 0 {
		fmt.Fprintf(out, "Areas to improve: %s\n", strings.Join(result.Improvements, ", "))
	}
}

// parseQuestionNumber turns a 1-based question number into a cursor index.
func parseQuestionNumber(arg string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value - 1, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func formatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func describeError(err error, serverURL string) error {
	if errors.Is(err, backend.ErrServiceUnavailable) {
		return fmt.Errorf("interview service unavailable at %s", serverURL)
	}
	return err
}
