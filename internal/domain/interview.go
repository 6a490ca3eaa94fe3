package domain

import "time"

// Difficulty levels accepted for an interview
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Verdict is a coarse categorical judgment of an answer, independent of
// the numeric score.
type Verdict string

const (
	VerdictCorrect          Verdict = "correct"
	VerdictPartial          Verdict = "partial"
	VerdictNeedsImprovement Verdict = "needs-improvement"
)

// IsValidDifficulty reports whether level is one of the accepted difficulty levels.
func IsValidDifficulty(level string) bool {
	switch level {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single interview question. IDs are sequential positions
// within a session; the sequence may grow while the interview runs.
type Question struct {
	ID               int      `json:"id"`
	Text             string   `json:"question"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty,omitempty"`
	TopicTags        []string `json:"topic_tags,omitempty"`
	IdealAnswerBrief string   `json:"ideal_answer_brief,omitempty"`
}

// Feedback is the evaluation of one answer. Score is 0-10, fractional allowed.
type Feedback struct {
	Text        string   `json:"feedback"`
	Score       float64  `json:"score"`
	Verdict     Verdict  `json:"verdict,omitempty"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Answer records one submitted answer together with its feedback.
// Answers are written once and never edited.
type Answer struct {
	QuestionID int       `json:"question_id"`
	Text       string    `json:"answer"`
	Feedback   *Feedback `json:"feedback,omitempty"`
}

// QAEntry is one row of an interview summary.
type QAEntry struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer,omitempty"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
	Answered bool    `json:"answered"`
}

// InterviewSummary is the post-hoc aggregate report for a session.
type InterviewSummary struct {
	SessionID       string    `json:"session_id"`
	Role            string    `json:"role"`
	Difficulty      string    `json:"difficulty"`
	Topics          []string  `json:"topics"`
	TotalQuestions  int       `json:"total_questions"`
	TotalAnswers    int       `json:"total_answers"`
	AverageScore    float64   `json:"average_score"`
	Entries         []QAEntry `json:"questions_and_answers"`
	OverallFeedback string    `json:"overall_feedback"`
}

// Session is one end-to-end interview attempt. It is owned by the
// InterviewService and must only be mutated while its store lock is held.
type Session struct {
	ID         string
	Role       string
	Difficulty string
	Topics     []string
	Questions  []Question
	Answers    []Answer
	CreatedAt  time.Time
}

// NewSession creates an empty session for the given interview profile.
func NewSession(id, role, difficulty string, topics []string) *Session {
	return &Session{
		ID:         id,
		Role:       role,
		Difficulty: difficulty,
		Topics:     topics,
		CreatedAt:  time.Now(),
	}
}

// AddQuestion appends a question, assigning the next sequential ID, and
// returns that ID.
func (s *Session) AddQuestion(q Question) int {
	q.ID = len(s.Questions)
	s.Questions = append(s.Questions, q)
	return q.ID
}

// QuestionByID returns the question with the given ID, or nil.
func (s *Session) QuestionByID(id int) *Question {
	if id < 0 || id >= len(s.Questions) {
		return nil
	}
	return &s.Questions[id]
}

// IsAnswered reports whether the question with the given ID already has
// a recorded answer.
func (s *Session) IsAnswered(questionID int) bool {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// RecordAnswer appends an answer with its feedback.
func (s *Session) RecordAnswer(questionID int, text string, fb *Feedback) {
	s.Answers = append(s.Answers, Answer{
		QuestionID: questionID,
		Text:       text,
		Feedback:   fb,
	})
}

// CurrentQuestion returns the lowest-ID question without an answer, or
// nil when every question has been answered.
func (s *Session) CurrentQuestion() *Question {
	for i := range s.Questions {
		if !s.IsAnswered(s.Questions[i].ID) {
			return &s.Questions[i]
		}
	}
	return nil
}

// IsComplete reports whether the session has reached maxQuestions answers.
func (s *Session) IsComplete(maxQuestions int) bool {
	return len(s.Answers) >= maxQuestions
}

// AverageScore computes the mean score over recorded answers. Answers
// without feedback count as zero; an empty session scores zero.
func (s *Session) AverageScore() float64 {
	if len(s.Answers) == 0 {
		return 0
	}
	var total float64
	for _, a := range s.Answers {
		if a.Feedback != nil {
			total += a.Feedback.Score
		}
	}
	return total / float64(len(s.Answers))
}
