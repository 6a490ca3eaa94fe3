package service

import (
	"context"
	"time"

	"prepmate/internal/domain"
)

// --- Manual Mocks ---

// MockQuestionGenerator
type MockQuestionGenerator struct {
	GenerateQuestionsFunc func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error)
}

func (m *MockQuestionGenerator) GenerateQuestions(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, profile, count)
	}
	panic("MockQuestionGenerator.GenerateQuestionsFunc not implemented")
}

// MockFeedbackEvaluator
type MockFeedbackEvaluator struct {
	EvaluateAnswerFunc          func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error)
	GenerateOverallFeedbackFunc func(ctx context.Context, summary *domain.InterviewSummary) (string, error)
}

func (m *MockFeedbackEvaluator) EvaluateAnswer(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
	if m.EvaluateAnswerFunc != nil {
		return m.EvaluateAnswerFunc(ctx, question, answer)
	}
	panic("MockFeedbackEvaluator.EvaluateAnswerFunc not implemented")
}

func (m *MockFeedbackEvaluator) GenerateOverallFeedback(ctx context.Context, summary *domain.InterviewSummary) (string, error) {
	if m.GenerateOverallFeedbackFunc != nil {
		return m.GenerateOverallFeedbackFunc(ctx, summary)
	}
	panic("MockFeedbackEvaluator.GenerateOverallFeedbackFunc not implemented")
}

// MockCache
type MockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	PingFunc   func(ctx context.Context) error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", domain.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// directBatches skips caching entirely for interview service tests.
type directBatches struct {
	generator domain.QuestionGenerator
}

func (d *directBatches) GetOrGenerate(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
	return d.generator.GenerateQuestions(ctx, profile, count)
}
