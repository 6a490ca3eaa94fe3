package service

import (
	"context"
	"fmt"
	"sync"

	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/logger"
	"prepmate/internal/util"

	"go.uber.org/zap"
)

// Session states reported by the status endpoint.
const (
	SessionStateActive    = "active"
	SessionStateCompleted = "completed"
)

// InterviewService coordinates sessions, question generation and answer
// evaluation.
type InterviewService interface {
	Start(ctx context.Context, req *dto.StartInterviewRequest) (*dto.StartInterviewResponse, error)
	CurrentQuestion(ctx context.Context, sessionID string) (*dto.CurrentQuestionResponse, error)
	SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	Status(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error)
	Summary(ctx context.Context, sessionID string) (*dto.SummaryResponse, error)
	DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteSessionResponse, error)
}

// interviewServiceImpl keeps all sessions in memory. There is no
// persistence; a restart loses every running interview.
type interviewServiceImpl struct {
	mu        sync.RWMutex
	sessions  map[string]*domain.Session
	batches   BatchCacheService
	generator domain.QuestionGenerator
	evaluator domain.FeedbackEvaluator
	cfg       *config.Config
}

// NewInterviewService creates the service. batches may wrap generator
// with a cache; generator is used directly for follow-up questions.
func NewInterviewService(batches BatchCacheService, generator domain.QuestionGenerator, evaluator domain.FeedbackEvaluator, cfg *config.Config) InterviewService {
	return &interviewServiceImpl{
		sessions:  make(map[string]*domain.Session),
		batches:   batches,
		generator: generator,
		evaluator: evaluator,
		cfg:       cfg,
	}
}

// Start creates a session with an initial question batch. The response
// embeds the batch as a JSON-encoded string per the wire contract.
func (s *interviewServiceImpl) Start(ctx context.Context, req *dto.StartInterviewRequest) (*dto.StartInterviewResponse, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = s.cfg.Interview.DefaultDifficulty
	}
	if !domain.IsValidDifficulty(difficulty) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid difficulty: %s", difficulty))
	}
	topics := req.Topics
	if len(topics) == 0 {
		topics = []string{"general"}
	}

	profile := domain.GenerationProfile{
		Role:       req.Role,
		Difficulty: difficulty,
		Topics:     topics,
	}
	questions, err := s.batches.GetOrGenerate(ctx, profile, s.cfg.Interview.BatchSize)
	if err != nil {
		return nil, err
	}

	session := domain.NewSession(util.NewSessionID(), req.Role, difficulty, topics)
	for _, q := range questions {
		session.AddQuestion(q)
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	encoded, err := dto.EncodeQuestionBatch(session.Questions)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode question batch", err)
	}

	logger.Get().Info("Interview session started",
		zap.String("session_id", session.ID),
		zap.String("role", session.Role),
		zap.String("difficulty", session.Difficulty),
		zap.Int("batch_size", len(session.Questions)))

	return &dto.StartInterviewResponse{
		SessionID:  session.ID,
		Question:   encoded,
		QuestionID: 0,
	}, nil
}

// CurrentQuestion returns the lowest-ID unanswered question.
func (s *interviewServiceImpl) CurrentQuestion(ctx context.Context, sessionID string) (*dto.CurrentQuestionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	if session.IsComplete(s.cfg.Interview.MaxQuestions) {
		return nil, domain.NewInterviewCompleteError(sessionID)
	}

	current := session.CurrentQuestion()
	if current == nil {
		return nil, domain.NewNotFoundError("no unanswered question in session")
	}
	return &dto.CurrentQuestionResponse{
		Question:   current.Text,
		QuestionID: current.ID,
	}, nil
}

// SubmitAnswer evaluates an answer, records it, and appends the next
// question unless the interview just completed. LLM calls run outside
// the store lock.
func (s *interviewServiceImpl) SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	s.mu.RLock()
	session, ok := s.sessions[req.SessionID]
	if !ok {
		s.mu.RUnlock()
		return nil, domain.NewSessionNotFoundError(req.SessionID)
	}
	if session.IsComplete(s.cfg.Interview.MaxQuestions) {
		s.mu.RUnlock()
		return nil, domain.NewInterviewCompleteError(req.SessionID)
	}
	questionPtr := session.QuestionByID(req.QuestionID)
	if questionPtr == nil {
		s.mu.RUnlock()
		return nil, domain.NewQuestionNotFoundError(req.SessionID, req.QuestionID)
	}
	if session.IsAnswered(req.QuestionID) {
		s.mu.RUnlock()
		return nil, domain.NewQuestionAnsweredError(req.QuestionID)
	}
	question := *questionPtr
	s.mu.RUnlock()

	feedback, err := s.evaluator.EvaluateAnswer(ctx, question, req.Answer)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, stillThere := s.sessions[req.SessionID]; !stillThere {
		s.mu.Unlock()
		return nil, domain.NewSessionNotFoundError(req.SessionID)
	}
	if session.IsAnswered(req.QuestionID) {
		s.mu.Unlock()
		return nil, domain.NewQuestionAnsweredError(req.QuestionID)
	}
	// Re-check completion: a concurrent submit may have filled the last
	// slot while this one was being evaluated.
	if session.IsComplete(s.cfg.Interview.MaxQuestions) {
		s.mu.Unlock()
		return nil, domain.NewInterviewCompleteError(req.SessionID)
	}
	session.RecordAnswer(req.QuestionID, req.Answer, feedback)
	isComplete := session.IsComplete(s.cfg.Interview.MaxQuestions)
	previousQuestions := make([]string, 0, len(session.Questions))
	for _, q := range session.Questions {
		previousQuestions = append(previousQuestions, q.Text)
	}
	s.mu.Unlock()

	resp := &dto.SubmitAnswerResponse{
		Feedback:    feedback.Text,
		Score:       feedback.Score,
		Verdict:     string(feedback.Verdict),
		Strengths:   feedback.Strengths,
		Weaknesses:  feedback.Weaknesses,
		Suggestions: feedback.Suggestions,
		IsComplete:  isComplete,
	}

	if !isComplete {
		nextQuestions, genErr := s.generator.GenerateQuestions(ctx, domain.GenerationProfile{
			Role:              session.Role,
			Difficulty:        session.Difficulty,
			Topics:            session.Topics,
			PreviousQuestions: previousQuestions,
		}, 1)
		if genErr != nil {
			// The answer is already recorded; a failed follow-up question
			// should not undo that. The client can fetch the current
			// question again or submit to an earlier unanswered one.
			logger.Get().Error("Failed to generate follow-up question",
				zap.Error(genErr),
				zap.String("session_id", req.SessionID))
		} else if len(nextQuestions) > 0 {
			s.mu.Lock()
			nextID := session.AddQuestion(nextQuestions[0])
			s.mu.Unlock()
			resp.NextQuestion = nextQuestions[0].Text
			resp.NextQuestionID = &nextID
		}
	}

	logger.Get().Info("Answer recorded",
		zap.String("session_id", req.SessionID),
		zap.Int("question_id", req.QuestionID),
		zap.Float64("score", feedback.Score),
		zap.Bool("is_complete", isComplete))
	return resp, nil
}

// Status reports the session lifecycle state.
func (s *interviewServiceImpl) Status(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	state := SessionStateActive
	isComplete := session.IsComplete(s.cfg.Interview.MaxQuestions)
	if isComplete {
		state = SessionStateCompleted
	}
	return &dto.SessionStatusResponse{
		SessionID:  sessionID,
		State:      state,
		IsComplete: isComplete,
	}, nil
}

// Summary aggregates the session into the report shape. The overall
// narrative comes from the LLM; if that call fails the summary still
// succeeds with a deterministic fallback narrative.
func (s *interviewServiceImpl) Summary(ctx context.Context, sessionID string) (*dto.SummaryResponse, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.RUnlock()
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	summary := &domain.InterviewSummary{
		SessionID:      sessionID,
		Role:           session.Role,
		Difficulty:     session.Difficulty,
		Topics:         session.Topics,
		TotalQuestions: len(session.Questions),
		TotalAnswers:   len(session.Answers),
		AverageScore:   session.AverageScore(),
	}
	answersByQuestion := make(map[int]domain.Answer, len(session.Answers))
	for _, a := range session.Answers {
		answersByQuestion[a.QuestionID] = a
	}
	for _, q := range session.Questions {
		entry := domain.QAEntry{Question: q.Text}
		if a, answered := answersByQuestion[q.ID]; answered {
			entry.Answer = a.Text
			entry.Answered = true
			if a.Feedback != nil {
				entry.Score = a.Feedback.Score
				entry.Feedback = a.Feedback.Text
			}
		}
		summary.Entries = append(summary.Entries, entry)
	}
	s.mu.RUnlock()

	narrative, err := s.evaluator.GenerateOverallFeedback(ctx, summary)
	if err != nil {
		logger.Get().Warn("Falling back to canned overall feedback",
			zap.Error(err),
			zap.String("session_id", sessionID))
		narrative = fallbackOverallFeedback(summary)
	}
	summary.OverallFeedback = narrative

	entries := make([]dto.QAEntryResponse, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		entries = append(entries, dto.QAEntryResponse{
			Question: e.Question,
			Answer:   e.Answer,
			Score:    e.Score,
			Feedback: e.Feedback,
			Answered: e.Answered,
		})
	}
	return &dto.SummaryResponse{
		SessionID:           summary.SessionID,
		Role:                summary.Role,
		Difficulty:          summary.Difficulty,
		Topics:              summary.Topics,
		TotalQuestions:      summary.TotalQuestions,
		TotalAnswers:        summary.TotalAnswers,
		AverageScore:        summary.AverageScore,
		QuestionsAndAnswers: entries,
		OverallFeedback:     summary.OverallFeedback,
	}, nil
}

// DeleteSession removes the session from the store.
func (s *interviewServiceImpl) DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	delete(s.sessions, sessionID)

	logger.Get().Info("Interview session deleted", zap.String("session_id", sessionID))
	return &dto.DeleteSessionResponse{SessionID: sessionID, Deleted: true}, nil
}

func fallbackOverallFeedback(summary *domain.InterviewSummary) string {
	switch {
	case summary.TotalAnswers == 0:
		return fmt.Sprintf("No answers were recorded for this %s interview yet.", summary.Role)
	case summary.AverageScore >= 8:
		return fmt.Sprintf("Strong performance across the %s interview with an average score of %.1f/10. Keep refining the weaker areas noted in the per-question feedback.", summary.Role, summary.AverageScore)
	case summary.AverageScore >= 5:
		return fmt.Sprintf("Solid foundation for the %s role with an average score of %.1f/10. Review the per-question feedback and practice the topics that scored lowest.", summary.Role, summary.AverageScore)
	default:
		return fmt.Sprintf("The %s interview surfaced significant gaps (average score %.1f/10). Revisit the fundamentals for each topic and retry the interview.", summary.Role, summary.AverageScore)
	}
}
