package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Interview: config.InterviewConfig{
			BatchSize:         5,
			MaxQuestions:      3,
			DefaultDifficulty: "medium",
		},
	}
}

func batchOf(n int) []domain.Question {
	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, domain.Question{
			Text:     fmt.Sprintf("Question %d", i+1),
			Category: "general",
		})
	}
	return questions
}

func newTestService(gen *MockQuestionGenerator, eval *MockFeedbackEvaluator, cfg *config.Config) InterviewService {
	return NewInterviewService(&directBatches{generator: gen}, gen, eval, cfg)
}

func startSession(t *testing.T, svc InterviewService) *dto.StartInterviewResponse {
	t.Helper()
	resp, err := svc.Start(context.Background(), &dto.StartInterviewRequest{
		Role:       "Software Engineer",
		Difficulty: "medium",
		Topics:     []string{"go", "networking"},
	})
	require.NoError(t, err)
	return resp
}

func TestInterviewService_Start(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			assert.Equal(t, "Software Engineer", profile.Role)
			assert.Equal(t, 5, count)
			return batchOf(5), nil
		},
	}
	svc := newTestService(gen, &MockFeedbackEvaluator{}, testConfig())

	resp := startSession(t, svc)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 0, resp.QuestionID)

	// The embedded batch string decodes into 5 questions with positional IDs.
	questions, err := dto.DecodeQuestionBatch(resp.Question)
	require.NoError(t, err)
	require.Len(t, questions, 5)
	assert.Equal(t, 0, questions[0].ID)
	assert.Equal(t, 4, questions[4].ID)
}

func TestInterviewService_Start_Validation(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			return batchOf(5), nil
		},
	}
	svc := newTestService(gen, &MockFeedbackEvaluator{}, testConfig())

	t.Run("InvalidDifficulty", func(t *testing.T) {
		_, err := svc.Start(context.Background(), &dto.StartInterviewRequest{Role: "SE", Difficulty: "brutal"})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		gen.GenerateQuestionsFunc = func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			assert.Equal(t, "medium", profile.Difficulty)
			assert.Equal(t, []string{"general"}, profile.Topics)
			return batchOf(5), nil
		}
		_, err := svc.Start(context.Background(), &dto.StartInterviewRequest{Role: "SE"})
		assert.NoError(t, err)
	})
}

func TestInterviewService_Start_GeneratorFailure(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			return nil, domain.NewLLMServiceError(errors.New("provider down"))
		},
	}
	svc := newTestService(gen, &MockFeedbackEvaluator{}, testConfig())

	_, err := svc.Start(context.Background(), &dto.StartInterviewRequest{Role: "SE", Difficulty: "easy"})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
}

func TestInterviewService_SubmitAnswer(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			if count == 1 {
				return []domain.Question{{Text: "Follow-up question"}}, nil
			}
			return batchOf(5), nil
		},
	}
	eval := &MockFeedbackEvaluator{
		EvaluateAnswerFunc: func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
			return &domain.Feedback{Text: "Good job", Score: 7, Verdict: domain.VerdictPartial}, nil
		},
	}
	svc := newTestService(gen, eval, testConfig())
	start := startSession(t, svc)

	resp, err := svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{
		SessionID:  start.SessionID,
		QuestionID: 0,
		Answer:     "Channels are typed conduits.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Good job", resp.Feedback)
	assert.Equal(t, 7.0, resp.Score)
	assert.False(t, resp.IsComplete)
	// A follow-up question extends the sequence past the batch of 5.
	require.NotNil(t, resp.NextQuestionID)
	assert.Equal(t, 5, *resp.NextQuestionID)
	assert.Equal(t, "Follow-up question", resp.NextQuestion)
}

func TestInterviewService_SubmitAnswer_Preconditions(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			return batchOf(5), nil
		},
	}
	eval := &MockFeedbackEvaluator{
		EvaluateAnswerFunc: func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
			return &domain.Feedback{Text: "ok", Score: 5}, nil
		},
	}
	svc := newTestService(gen, eval, testConfig())
	start := startSession(t, svc)

	t.Run("UnknownSession", func(t *testing.T) {
		_, err := svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: "nope", QuestionID: 0, Answer: "a"})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeSessionNotFound, domainErr.Code)
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		_, err := svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: 99, Answer: "a"})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeQuestionNotFound, domainErr.Code)
	})

	t.Run("DuplicateAnswer", func(t *testing.T) {
		_, err := svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: 1, Answer: "a"})
		require.NoError(t, err)
		_, err = svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: 1, Answer: "again"})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeQuestionAnswered, domainErr.Code)
	})
}

func TestInterviewService_SubmitAnswer_Completion(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			if count == 1 {
				return []domain.Question{{Text: "Follow-up"}}, nil
			}
			return batchOf(5), nil
		},
	}
	eval := &MockFeedbackEvaluator{
		EvaluateAnswerFunc: func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
			return &domain.Feedback{Text: "ok", Score: 6}, nil
		},
	}
	cfg := testConfig() // MaxQuestions: 3
	svc := newTestService(gen, eval, cfg)
	start := startSession(t, svc)

	var lastResp *dto.SubmitAnswerResponse
	for i := 0; i < cfg.Interview.MaxQuestions; i++ {
		var err error
		lastResp, err = svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{
			SessionID:  start.SessionID,
			QuestionID: i,
			Answer:     "answer",
		})
		require.NoError(t, err)
	}

	assert.True(t, lastResp.IsComplete)
	assert.Empty(t, lastResp.NextQuestion)
	assert.Nil(t, lastResp.NextQuestionID)

	status, err := svc.Status(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, SessionStateCompleted, status.State)
	assert.True(t, status.IsComplete)

	// Further submissions are rejected once complete.
	_, err = svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: 3, Answer: "late"})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInterviewComplete, domainErr.Code)
}

func TestInterviewService_SubmitAnswer_ConcurrentSubmitsNeverOverfill(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			return batchOf(5), nil
		},
	}
	// Both submissions must be inside evaluation, past the read-lock
	// completion check, before either records its answer.
	var entered sync.WaitGroup
	entered.Add(2)
	eval := &MockFeedbackEvaluator{
		EvaluateAnswerFunc: func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
			entered.Done()
			entered.Wait()
			return &domain.Feedback{Text: "ok", Score: 5}, nil
		},
		GenerateOverallFeedbackFunc: func(ctx context.Context, summary *domain.InterviewSummary) (string, error) {
			return "done", nil
		},
	}
	cfg := testConfig()
	cfg.Interview.MaxQuestions = 1
	svc := newTestService(gen, eval, cfg)
	start := startSession(t, svc)

	results := make(chan error, 2)
	for _, q := range []int{0, 1} {
		go func(questionID int) {
			_, err := svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{
				SessionID:  start.SessionID,
				QuestionID: questionID,
				Answer:     "answer",
			})
			results <- err
		}(q)
	}

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			failures = append(failures, err)
		}
	}

	// Exactly one submit lands the final slot; the other is rejected.
	require.Len(t, failures, 1)
	var domainErr *domain.DomainError
	require.ErrorAs(t, failures[0], &domainErr)
	assert.Equal(t, domain.CodeInterviewComplete, domainErr.Code)

	summary, err := svc.Summary(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, cfg.Interview.MaxQuestions, summary.TotalAnswers)
}

func TestInterviewService_SubmitAnswer_EvaluatorFailureLeavesSessionUntouched(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			return batchOf(5), nil
		},
	}
	eval := &MockFeedbackEvaluator{
		EvaluateAnswerFunc: func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
			return nil, domain.NewLLMServiceError(errors.New("timeout"))
		},
	}
	svc := newTestService(gen, eval, testConfig())
	start := startSession(t, svc)

	_, err := svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: 0, Answer: "a"})
	require.Error(t, err)

	// The question stays answerable after the failure.
	eval.EvaluateAnswerFunc = func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
		return &domain.Feedback{Text: "ok", Score: 5}, nil
	}
	_, err = svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: 0, Answer: "a"})
	assert.NoError(t, err)
}

func TestInterviewService_CurrentQuestion(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			if count == 1 {
				return []domain.Question{{Text: "Follow-up"}}, nil
			}
			return batchOf(5), nil
		},
	}
	eval := &MockFeedbackEvaluator{
		EvaluateAnswerFunc: func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
			return &domain.Feedback{Text: "ok", Score: 5}, nil
		},
	}
	svc := newTestService(gen, eval, testConfig())
	start := startSession(t, svc)

	current, err := svc.CurrentQuestion(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.QuestionID)
	assert.Equal(t, "Question 1", current.Question)

	_, err = svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: 0, Answer: "a"})
	require.NoError(t, err)

	current, err = svc.CurrentQuestion(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.QuestionID)
}

func TestInterviewService_Summary(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			if count == 1 {
				return []domain.Question{{Text: "Follow-up"}}, nil
			}
			return batchOf(5), nil
		},
	}
	scores := []float64{8, 6.8}
	i := 0
	eval := &MockFeedbackEvaluator{
		EvaluateAnswerFunc: func(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
			fb := &domain.Feedback{Text: "noted", Score: scores[i]}
			i++
			return fb, nil
		},
		GenerateOverallFeedbackFunc: func(ctx context.Context, summary *domain.InterviewSummary) (string, error) {
			return "Keep practicing system design.", nil
		},
	}
	svc := newTestService(gen, eval, testConfig())
	start := startSession(t, svc)

	for q := 0; q < 2; q++ {
		_, err := svc.SubmitAnswer(context.Background(), &dto.SubmitAnswerRequest{SessionID: start.SessionID, QuestionID: q, Answer: "a"})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background(), start.SessionID)
	require.NoError(t, err)

	assert.Equal(t, start.SessionID, summary.SessionID)
	assert.Equal(t, 7, summary.TotalQuestions) // 5 batch + 2 follow-ups
	assert.Equal(t, 2, summary.TotalAnswers)
	assert.InDelta(t, 7.4, summary.AverageScore, 1e-9)
	assert.Len(t, summary.QuestionsAndAnswers, summary.TotalQuestions)
	assert.Equal(t, "Keep practicing system design.", summary.OverallFeedback)

	assert.True(t, summary.QuestionsAndAnswers[0].Answered)
	assert.False(t, summary.QuestionsAndAnswers[6].Answered)
}

func TestInterviewService_Summary_NarrativeFallback(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			return batchOf(5), nil
		},
	}
	eval := &MockFeedbackEvaluator{
		GenerateOverallFeedbackFunc: func(ctx context.Context, summary *domain.InterviewSummary) (string, error) {
			return "", domain.NewLLMServiceError(errors.New("provider down"))
		},
	}
	svc := newTestService(gen, eval, testConfig())
	start := startSession(t, svc)

	summary, err := svc.Summary(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.OverallFeedback)
}

func TestInterviewService_DeleteSession(t *testing.T) {
	gen := &MockQuestionGenerator{
		GenerateQuestionsFunc: func(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
			return batchOf(5), nil
		},
	}
	svc := newTestService(gen, &MockFeedbackEvaluator{}, testConfig())
	start := startSession(t, svc)

	resp, err := svc.DeleteSession(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)

	_, err = svc.Status(context.Background(), start.SessionID)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeSessionNotFound, domainErr.Code)

	_, err = svc.DeleteSession(context.Background(), start.SessionID)
	assert.Error(t, err)
}
