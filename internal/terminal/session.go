package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"interview-app/internal/backend"
	"interview-app/internal/interview"
)

const (
	defaultHTTPTimeout   = 10 * time.Second
	defaultClockInterval = time.Second
)

type Config struct {
	PostulationID string
	SessionID     string
	ServerURL     string
	HTTPTimeout   time.Duration
	TimeBudget    int
	RedirectDelay time.Duration
	Logger        *log.Logger

	// ClockInterval is the real duration of one budget second.
	ClockInterval time.Duration
}

// Run drives one interview session against the backend at cfg.ServerURL,
// reading commands from in until the session completes or the user exits.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if strings.TrimSpace(cfg.PostulationID) == "" {
		return errors.New("postulation id is required")
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := backend.NewClient(cfg.ServerURL, &http.Client{Timeout: timeout})
	controller := interview.NewController(client, client, interview.Config{
		TimeBudget:    cfg.TimeBudget,
		RedirectDelay: cfg.RedirectDelay,
		Logger:        cfg.Logger,
	})

	fmt.Fprintf(out, "interview-cli\npostulation=%s\nserver=%s\n\n", cfg.PostulationID, cfg.ServerURL)
	return runSession(ctx, in, out, controller, cfg)
}

type session struct {
	ctx        context.Context
	out        io.Writer
	controller *interview.Controller
	cfg        Config
	input      <-chan inputLine
	serverURL  string

	clockCancel context.CancelFunc
	clockDone   chan struct{}
}

func runSession(ctx context.Context, in io.Reader, out io.Writer, controller *interview.Controller, cfg Config) error {
	defer controller.Close()

	inputCtx, stopInput := context.WithCancel(ctx)
	defer stopInput()
	input := readLines(inputCtx, in)

	s := &session{
		ctx:        ctx,
		out:        out,
		controller: controller,
		cfg:        cfg,
		input:      input,
		serverURL:  cfg.ServerURL,
	}
	defer s.stopClock()

	if err := controller.Load(ctx, cfg.PostulationID, cfg.SessionID); err != nil {
		if interview.Fatal(err) {
			return s.redirect(err)
		}
		s.printNotice(err)
	}
	if done, err := s.afterCommand(); done {
		return err
	}
	printHelp(out)
	s.showCurrent()

	for {
		fmt.Fprint(out, "\n> ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case <-s.clockDone:
			s.clockDone = nil
			if s.controller.Phase().Terminal() {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Time is up.")
			}
			if done, err := s.afterCommand(); done {
				return err
			}
		case line := <-input:
			if line.err != nil {
				fmt.Fprintln(out)
				if errors.Is(line.err, io.EOF) {
					return nil
				}
				return line.err
			}
			if exit := s.handle(strings.TrimSpace(line.text)); exit {
				return nil
			}
			if done, err := s.afterCommand(); done {
				return err
			}
		}
	}
}

// handle runs one command line and reports whether the user asked to leave.
func (s *session) handle(line string) bool {
	if line == "" {
		return false
	}
	command, rest, _ := strings.Cut(line, " ")
	command = strings.ToLower(command)
	rest = strings.TrimSpace(rest)

	switch command {
	case "help":
		printHelp(s.out)
	case "exit", "quit":
		return true
	case "show":
		s.showCurrent()
	case "list":
		s.listQuestions()
	case "status":
		s.showStatus()
	case "goto":
		index, err := parseQuestionNumber(rest)
		if err != nil {
			fmt.Fprintf(s.out, "usage: goto <question number>: %v\n", err)
			return false
		}
		if err := s.controller.NavigateTo(index); err != nil {
			s.printNotice(err)
			return false
		}
		s.showCurrent()
	case "answer":
		if err := s.controller.EditDraft(rest); err != nil {
			s.printNotice(err)
			return false
		}
		fmt.Fprintln(s.out, "Draft saved. Type 'submit' to send it.")
	case "submit":
		s.submit()
	case "generate":
		if err := s.controller.Generate(s.ctx); err != nil {
			s.printNotice(err)
			return false
		}
		s.showCurrent()
	case "finish":
		ok, err := s.confirm("Finish the interview now? Unanswered questions score zero. (yes/no): ")
		if err != nil || !ok {
			return false
		}
		if err := s.controller.Complete(s.ctx); err != nil {
			s.printNotice(err)
		}
	default:
		fmt.Fprintln(s.out, "unknown command. type 'help' for usage.")
	}
	return false
}

func (s *session) submit() {
	before := s.controller.Snapshot()
	question, ok := before.CurrentQuestion()

	if err := s.controller.SubmitCurrent(s.ctx); err != nil {
		s.printNotice(err)
		return
	}
	if !ok {
		return
	}

	after := s.controller.Snapshot()
	for _, evaluation := range after.Evaluations {
		if evaluation.QuestionID == question.ID {
			fmt.Fprintf(s.out, "Score: %s/10. %s\n", formatScore(evaluation.Score), evaluation.Feedback)
			break
		}
	}
	if after.Phase == interview.PhaseAnswering {
		s.showCurrent()
	}
}

// afterCommand starts the clock once questions are available and reports
// whether the session is over.
func (s *session) afterCommand() (bool, error) {
	snapshot := s.controller.Snapshot()
	switch snapshot.Phase {
	case interview.PhaseAnswering, interview.PhaseSubmitting:
		s.startClock()
	case interview.PhaseCompleted:
		printResult(s.out, snapshot)
		return true, nil
	case interview.PhaseErrored:
		return true, s.redirect(snapshot.Notice)
	}
	return false, nil
}

func (s *session) startClock() {
	if s.clockCancel != nil {
		return
	}
	interval := s.cfg.ClockInterval
	if interval <= 0 {
		interval = defaultClockInterval
	}

	clockCtx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	s.clockCancel = cancel
	s.clockDone = done
	go func() {
		defer close(done)
		s.controller.RunClock(clockCtx, interval)
	}()
}

func (s *session) stopClock() {
	if s.clockCancel != nil {
		s.clockCancel()
	}
}

func (s *session) redirect(err error) error {
	fmt.Fprintf(s.out, "error: %v\n", describeError(err, s.serverURL))
	delay := s.controller.RedirectDelay()
	fmt.Fprintf(s.out, "Returning to your postulations in %s.\n", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.ctx.Done():
	}
	return err
}

func (s *session) confirm(prompt string) (bool, error) {
	for {
		fmt.Fprint(s.out, prompt)
		select {
		case <-s.ctx.Done():
			return false, s.ctx.Err()
		case line := <-s.input:
			if line.err != nil {
				return false, line.err
			}
			switch strings.ToLower(strings.TrimSpace(line.text)) {
			case "y", "yes":
				return true, nil
			case "n", "no":
				return false, nil
			default:
				fmt.Fprintln(s.out, "Please answer yes or no.")
			}
		}
	}
}

func (s *session) printNotice(err error) {
	switch {
	case errors.Is(err, interview.ErrEmptyAnswer):
		fmt.Fprintln(s.out, "Answer cannot be empty.")
	case errors.Is(err, interview.ErrSubmission):
		fmt.Fprintf(s.out, "Submission failed: %v\nYour draft was kept; type 'submit' to retry.\n", describeError(err, s.serverURL))
	case errors.Is(err, interview.ErrGeneration):
		fmt.Fprintf(s.out, "Question generation failed: %v\nType 'generate' to retry.\n", describeError(err, s.serverURL))
	case errors.Is(err, interview.ErrFinalization):
		fmt.Fprintf(s.out, "Could not finalize the session: %v\n", describeError(err, s.serverURL))
	default:
		fmt.Fprintf(s.out, "error: %v\n", describeError(err, s.serverURL))
	}
}

type inputLine struct {
	text string
	err  error
}

// readLines feeds lines from in to the returned channel until ctx is done. The
// last value carries the read error, io.EOF included.
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	input := make(chan inputLine)
	reader := bufio.NewReader(in)

	send := func(line inputLine) bool {
		select {
		case input <- line:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		for {
			text, err := reader.ReadString('\n')
			if text != "" && !send(inputLine{text: text}) {
				return
			}
			if err != nil {
				send(inputLine{err: err})
				return
			}
		}
	}()
	return input
}
