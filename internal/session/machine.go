// Package session implements the client-side interview state machine.
// It owns all client-visible interview progress and defines the legal
// transitions between not-started, in-progress and completed states.
// The machine is single-writer: only its own operations mutate state;
// callers read snapshots and dispatch intents.
package session

import (
	"context"
	"errors"
	"strings"

	"prepmate/internal/client"
	"prepmate/internal/domain"
)

// State is the lifecycle position of one interview attempt.
type State int

const (
	// Idle: no session.
	Idle State = iota
	// Active: session started, a question is awaiting an answer.
	Active
	// AwaitingAdvance: an answer was just scored, feedback is displayed,
	// the user has not moved on yet.
	AwaitingAdvance
	// Completed: the service reported no more questions.
	Completed
	// SummaryLoaded: the summary was fetched after completion.
	SummaryLoaded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case AwaitingAdvance:
		return "awaiting-advance"
	case Completed:
		return "completed"
	case SummaryLoaded:
		return "summary-loaded"
	}
	return "unknown"
}

// Guard rejections. These are returned without touching the machine's
// error field: a rejected call is caller misuse, not a failed attempt.
var (
	ErrBusy             = errors.New("an operation is already in flight")
	ErrNoSession        = errors.New("no interview session is active")
	ErrNoActiveQuestion = errors.New("no question is awaiting an answer")
	ErrEmptyRole        = errors.New("role must not be empty")
)

// Machine is the interview session state machine. It is not safe for
// concurrent use: operations are meant to be dispatched from a single
// goroutine, and the busy guard turns overlapping calls into detectable
// errors rather than silent races.
type Machine struct {
	api client.InterviewAPI

	state        State
	role         string
	difficulty   string
	topics       []string
	sessionID    string
	questions    []domain.Question
	currentIndex int
	answers      []domain.Answer
	lastFeedback *domain.Feedback
	draft        string
	summary      *domain.InterviewSummary
	busy         bool
	errMsg       string
}

// Option configures a Machine.
type Option func(*Machine)

// WithDifficulty overrides the default difficulty sent on start.
func WithDifficulty(difficulty string) Option {
	return func(m *Machine) { m.difficulty = difficulty }
}

// WithTopics overrides the default topics sent on start.
func WithTopics(topics []string) Option {
	return func(m *Machine) { m.topics = topics }
}

// NewMachine creates an idle machine talking to the given API.
func NewMachine(api client.InterviewAPI, opts ...Option) *Machine {
	m := &Machine{
		api:        api,
		difficulty: domain.DifficultyMedium,
		topics:     []string{"general"},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Accessors. All return the machine's current view; slices are the
// machine's own backing arrays and must not be mutated by callers.

func (m *Machine) State() State                      { return m.state }
func (m *Machine) Role() string                      { return m.role }
func (m *Machine) SessionID() string                 { return m.sessionID }
func (m *Machine) Questions() []domain.Question      { return m.questions }
func (m *Machine) CurrentIndex() int                 { return m.currentIndex }
func (m *Machine) Answers() []domain.Answer          { return m.answers }
func (m *Machine) LastFeedback() *domain.Feedback    { return m.lastFeedback }
func (m *Machine) Summary() *domain.InterviewSummary { return m.summary }
func (m *Machine) Busy() bool                        { return m.busy }
func (m *Machine) Err() string                       { return m.errMsg }
func (m *Machine) Draft() string                     { return m.draft }

// SetDraft updates the answer input buffer.
func (m *Machine) SetDraft(text string) { m.draft = text }

// CurrentQuestion returns the question at the current index, or nil when
// the sequence is empty.
func (m *Machine) CurrentQuestion() *domain.Question {
	if m.currentIndex < 0 || m.currentIndex >= len(m.questions) {
		return nil
	}
	return &m.questions[m.currentIndex]
}

// Completed reports whether the service has signalled completion.
func (m *Machine) Completed() bool {
	return m.state == Completed || m.state == SummaryLoaded
}

// Start begins a new interview for the given role. On success the
// session id and decoded question batch are committed together and the
// machine moves Idle -> Active; on failure nothing is applied and the
// machine stays where it was with the error recorded.
func (m *Machine) Start(ctx context.Context, role string) error {
	if m.busy {
		return ErrBusy
	}
	if strings.TrimSpace(role) == "" {
		return ErrEmptyRole
	}

	m.errMsg = ""
	m.busy = true

	result, err := m.api.Start(ctx, role, m.difficulty, m.topics)
	if err != nil {
		m.errMsg = err.Error()
		m.busy = false
		return err
	}

	// Atomic commit: session id and question list land together.
	m.role = role
	m.sessionID = result.SessionID
	m.questions = result.Questions
	m.currentIndex = 0
	m.answers = nil
	m.lastFeedback = nil
	m.draft = ""
	m.summary = nil
	m.state = Active
	m.busy = false
	return nil
}

// Submit sends the answer for the current question. On success the
// answer is recorded with its feedback and the machine moves to
// AwaitingAdvance, or straight to Completed when the service signals
// the interview is over. A next-question payload extends the walkable
// question sequence.
func (m *Machine) Submit(ctx context.Context, answerText string) error {
	if m.busy {
		return ErrBusy
	}
	if m.sessionID == "" {
		return ErrNoSession
	}
	question := m.CurrentQuestion()
	if question == nil || m.Completed() {
		return ErrNoActiveQuestion
	}

	m.errMsg = ""
	m.busy = true

	resp, err := m.api.SubmitAnswer(ctx, m.sessionID, question.ID, answerText)
	if err != nil {
		m.errMsg = err.Error()
		m.busy = false
		return err
	}

	feedback := &domain.Feedback{
		Text:        resp.Feedback,
		Score:       resp.Score,
		Verdict:     domain.Verdict(resp.Verdict),
		Strengths:   resp.Strengths,
		Weaknesses:  resp.Weaknesses,
		Suggestions: resp.Suggestions,
	}
	m.answers = append(m.answers, domain.Answer{
		QuestionID: question.ID,
		Text:       answerText,
		Feedback:   feedback,
	})
	m.lastFeedback = feedback

	if resp.IsComplete {
		m.state = Completed
	} else {
		if resp.NextQuestion != "" && resp.NextQuestionID != nil {
			m.questions = append(m.questions, domain.Question{
				ID:   *resp.NextQuestionID,
				Text: resp.NextQuestion,
			})
		}
		m.state = AwaitingAdvance
	}
	m.busy = false
	return nil
}

// Advance moves to the next question, clearing the displayed feedback
// and the answer draft. At the last index it is a no-op and reports
// false; the caller must wait for Submit to extend the sequence or
// signal completion.
func (m *Machine) Advance() bool {
	if m.currentIndex >= len(m.questions)-1 {
		return false
	}
	m.currentIndex++
	m.lastFeedback = nil
	m.draft = ""
	if m.state == AwaitingAdvance {
		m.state = Active
	}
	return true
}

// LoadSummary fetches the interview summary. Idempotent: calling again
// re-fetches and overwrites. On failure any previously loaded summary
// is left untouched.
func (m *Machine) LoadSummary(ctx context.Context) error {
	if m.busy {
		return ErrBusy
	}
	if m.sessionID == "" {
		return ErrNoSession
	}

	m.errMsg = ""
	m.busy = true

	resp, err := m.api.Summary(ctx, m.sessionID)
	if err != nil {
		m.errMsg = err.Error()
		m.busy = false
		return err
	}

	entries := make([]domain.QAEntry, 0, len(resp.QuestionsAndAnswers))
	for _, e := range resp.QuestionsAndAnswers {
		entries = append(entries, domain.QAEntry{
			Question: e.Question,
			Answer:   e.Answer,
			Score:    e.Score,
			Feedback: e.Feedback,
			Answered: e.Answered,
		})
	}
	m.summary = &domain.InterviewSummary{
		SessionID:       resp.SessionID,
		Role:            resp.Role,
		Difficulty:      resp.Difficulty,
		Topics:          resp.Topics,
		TotalQuestions:  resp.TotalQuestions,
		TotalAnswers:    resp.TotalAnswers,
		AverageScore:    resp.AverageScore,
		Entries:         entries,
		OverallFeedback: resp.OverallFeedback,
	}
	// SummaryLoaded is the terminal display state; it is only entered
	// from Completed. A mid-interview summary fetch keeps the state.
	if m.state == Completed || m.state == SummaryLoaded {
		m.state = SummaryLoaded
	}
	m.busy = false
	return nil
}

// Restart clears every field back to its initial zero value and returns
// to Idle. It never calls the service; server-side deletion is a
// separate operation left to the caller.
func (m *Machine) Restart() {
	m.state = Idle
	m.role = ""
	m.sessionID = ""
	m.questions = nil
	m.currentIndex = 0
	m.answers = nil
	m.lastFeedback = nil
	m.draft = ""
	m.summary = nil
	m.busy = false
	m.errMsg = ""
}
