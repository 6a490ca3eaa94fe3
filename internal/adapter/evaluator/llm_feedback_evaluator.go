package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"prepmate/internal/domain"
	"prepmate/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LLMFeedbackEvaluator implements domain.FeedbackEvaluator on top of a
// langchaingo model.
type LLMFeedbackEvaluator struct {
	llm         llms.Model
	temperature float64
}

// NewLLMFeedbackEvaluator creates a new evaluator using the given model.
func NewLLMFeedbackEvaluator(llm llms.Model, temperature float64) domain.FeedbackEvaluator {
	return &LLMFeedbackEvaluator{
		llm:         llm,
		temperature: temperature,
	}
}

// EvaluateAnswer asks the LLM to score the candidate's answer and parses
// the JSON object it returns. Scores are clamped to [0, 10]; unknown
// verdicts are dropped rather than rejected.
func (e *LLMFeedbackEvaluator) EvaluateAnswer(ctx context.Context, question domain.Question, answer string) (*domain.Feedback, error) {
	l := logger.Get()
	l.Debug("Evaluating answer with LLM",
		zap.Int("question_id", question.ID),
		zap.String("question", question.Text))

	prompt := fmt.Sprintf(`You are an expert interviewer evaluating a candidate's answer. Respond with ONLY a JSON object in the following format:
{
    "feedback": "detailed feedback here",
    "score": 0.0,
    "verdict": "correct",
    "strengths": ["..."],
    "weaknesses": ["..."],
    "suggestions": ["..."]
}

Question: %s
Ideal Answer Brief: %s
Candidate's Answer: %s

Rules:
1. score must be between 0 and 10, fractional values allowed
2. verdict must be one of "correct", "partial" or "needs-improvement"
3. feedback must be under 150 words covering correctness, completeness, communication clarity and technical depth
4. strengths, weaknesses and suggestions each list at most 3 short items`,
		question.Text, question.IdealAnswerBrief, answer)

	rawResponse, err := e.llm.Call(ctx, prompt, llms.WithTemperature(e.temperature))
	if err != nil {
		l.Error("LLM call failed during answer evaluation", zap.Error(err), zap.Int("question_id", question.ID))
		return nil, domain.NewLLMServiceError(fmt.Errorf("answer evaluation call failed: %w", err))
	}

	jsonStr, err := extractJSONObject(rawResponse)
	if err != nil {
		l.Error("Could not locate JSON object in LLM response",
			zap.Error(err),
			zap.String("raw_response", rawResponse))
		return nil, domain.NewLLMServiceError(err)
	}

	var parsed struct {
		Feedback    string   `json:"feedback"`
		Score       float64  `json:"score"`
		Verdict     string   `json:"verdict"`
		Strengths   []string `json:"strengths"`
		Weaknesses  []string `json:"weaknesses"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		l.Error("Failed to unmarshal feedback from LLM response",
			zap.Error(err),
			zap.String("json_string_tried_to_parse", jsonStr))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal feedback (tried to parse: '%s'): %w", jsonStr, err))
	}

	if strings.TrimSpace(parsed.Feedback) == "" {
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM returned empty feedback text"))
	}

	fb := &domain.Feedback{
		Text:        parsed.Feedback,
		Score:       clampScore(parsed.Score),
		Verdict:     normalizeVerdict(parsed.Verdict),
		Strengths:   parsed.Strengths,
		Weaknesses:  parsed.Weaknesses,
		Suggestions: parsed.Suggestions,
	}

	l.Info("Answer evaluated",
		zap.Int("question_id", question.ID),
		zap.Float64("score", fb.Score),
		zap.String("verdict", string(fb.Verdict)))
	return fb, nil
}

// GenerateOverallFeedback produces the closing narrative for a finished
// interview.
func (e *LLMFeedbackEvaluator) GenerateOverallFeedback(ctx context.Context, summary *domain.InterviewSummary) (string, error) {
	l := logger.Get()

	var sb strings.Builder
	for _, entry := range summary.Entries {
		if !entry.Answered {
			continue
		}
		fmt.Fprintf(&sb, "Q: %s\nScore: %.1f\nFeedback: %s\n\n", entry.Question, entry.Score, entry.Feedback)
	}

	prompt := fmt.Sprintf(`You are an expert interviewer writing a closing assessment for a mock interview.

Role: %s
Difficulty: %s
Average score: %.1f out of 10

Per-question results:
%s
Write a short overall assessment (under 120 words) of the candidate's performance: main strengths, main gaps, and what to practice next. Respond with the assessment text only, no JSON, no headings.`,
		summary.Role, summary.Difficulty, summary.AverageScore, sb.String())

	narrative, err := e.llm.Call(ctx, prompt, llms.WithTemperature(e.temperature))
	if err != nil {
		l.Error("LLM call failed during overall feedback generation", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("overall feedback call failed: %w", err))
	}

	narrative = strings.TrimSpace(stripThinkBlocks(narrative))
	if narrative == "" {
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM returned empty overall feedback"))
	}
	return narrative, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func normalizeVerdict(verdict string) domain.Verdict {
	switch domain.Verdict(strings.ToLower(strings.TrimSpace(verdict))) {
	case domain.VerdictCorrect:
		return domain.VerdictCorrect
	case domain.VerdictPartial:
		return domain.VerdictPartial
	case domain.VerdictNeedsImprovement:
		return domain.VerdictNeedsImprovement
	}
	return ""
}

// extractJSONObject strips any <think> blocks and pulls out the outermost
// JSON object from an LLM response.
func extractJSONObject(raw string) (string, error) {
	cleaned := stripThinkBlocks(strings.TrimSpace(raw))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in LLM response: %s", cleaned)
	}
	return cleaned[start : end+1], nil
}

func stripThinkBlocks(s string) string {
	if thinkStart := strings.Index(s, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(s, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			s = s[:thinkStart] + s[thinkEnd+len("</think>"):]
			s = strings.TrimSpace(s)
		}
	}
	return s
}

var _ domain.FeedbackEvaluator = (*LLMFeedbackEvaluator)(nil)
