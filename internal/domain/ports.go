package domain

import "context"

// GenerationProfile describes what kind of questions to generate.
type GenerationProfile struct {
	Role              string
	Difficulty        string
	Topics            []string
	PreviousQuestions []string
}

// QuestionGenerator produces interview questions for a profile.
// Implementations call an LLM; count is a request, not a guarantee,
// so callers must handle a shorter batch.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, profile GenerationProfile, count int) ([]Question, error)
}

// FeedbackEvaluator scores a candidate's answer and produces feedback.
type FeedbackEvaluator interface {
	EvaluateAnswer(ctx context.Context, question Question, answer string) (*Feedback, error)

	// GenerateOverallFeedback produces the closing narrative for a
	// finished interview from its per-answer results.
	GenerateOverallFeedback(ctx context.Context, summary *InterviewSummary) (string, error)
}
