package questiongen

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

// LLMQuestionGenerator implements domain.QuestionGenerator on top of a
// langchaingo model (any OpenAI-compatible endpoint).
type LLMQuestionGenerator struct {
	llm         llms.Model
	temperature float64
}

// NewLLMQuestionGenerator creates a new generator using the given model.
func NewLLMQuestionGenerator(llm llms.Model, temperature float64) domain.QuestionGenerator {
	return &LLMQuestionGenerator{
		llm:         llm,
		temperature: temperature,
	}
}

// GenerateQuestions asks the LLM for count interview questions matching
// the profile and parses the JSON array it returns. Entries missing a
// question text are skipped rather than failing the whole batch.
func (g *LLMQuestionGenerator) GenerateQuestions(ctx context.Context, profile domain.GenerationProfile, count int) ([]domain.Question, error) {
	l := logger.Get()

	prompt := buildQuestionPrompt(profile, count)
	l.Debug("Generating interview questions",
		zap.String("role", profile.Role),
		zap.String("difficulty", profile.Difficulty),
		zap.Strings("topics", profile.Topics),
		zap.Int("count", count))

	rawResponse, err := g.llm.Call(ctx, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		l.Error("LLM call failed during question generation", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("question generation call failed: %w", err))
	}

	jsonStr, err := extractJSONArray(rawResponse)
	if err != nil {
		l.Error("Could not locate JSON array in LLM response",
			zap.Error(err),
			zap.String("raw_response", rawResponse))
		return nil, domain.NewLLMServiceError(err)
	}

	var parsed []struct {
		Question         string   `json:"question"`
		Category         string   `json:"category"`
		Difficulty       string   `json:"difficulty"`
		TopicTags        []string `json:"topic_tags"`
		IdealAnswerBrief string   `json:"ideal_answer_brief"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		l.Error("Failed to unmarshal question batch from LLM response",
			zap.Error(err),
			zap.String("json_string_tried_to_parse", jsonStr))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal question batch (tried to parse: '%s'): %w", jsonStr, err))
	}

	questions := make([]domain.Question, 0, len(parsed))
	for _, p := range parsed {
		if strings.TrimSpace(p.Question) == "" {
			l.Warn("LLM generated a question entry without text, skipping", zap.Any("entry", p))
			continue
		}
		difficulty := p.Difficulty
		if !domain.IsValidDifficulty(difficulty) {
			difficulty = profile.Difficulty
		}
		questions = append(questions, domain.Question{
			Text:             p.Question,
			Category:         p.Category,
			Difficulty:       difficulty,
			TopicTags:        p.TopicTags,
			IdealAnswerBrief: p.IdealAnswerBrief,
		})
	}

	if len(questions) == 0 {
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM returned no usable questions"))
	}

	l.Info("Generated interview questions",
		zap.Int("num_requested", count),
		zap.Int("num_generated", len(questions)))
	return questions, nil
}

func buildQuestionPrompt(profile domain.GenerationProfile, count int) string {
	previous := "None"
	if len(profile.PreviousQuestions) > 0 {
		previous = strings.Join(profile.PreviousQuestions, "\n")
	}

	return fmt.Sprintf(`You are an expert interviewer. Generate %d unique %s level interview questions for a %s position, covering these topics: %s.

Previous questions asked:
%s

Generate questions that have not been asked before. Respond with ONLY a JSON array where each element has this format:
{
  "question": "the question text",
  "category": "the topic area this question belongs to",
  "difficulty": "easy, medium or hard",
  "topic_tags": ["tag1", "tag2"],
  "ideal_answer_brief": "one or two sentences sketching a strong answer"
}`, count, profile.Difficulty, profile.Role, strings.Join(profile.Topics, ", "), previous)
}

// extractJSONArray strips any <think> blocks and pulls out the outermost
// JSON array from an LLM response.
func extractJSONArray(raw string) (string, error) {
	cleaned := stripThinkBlocks(strings.TrimSpace(raw))

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in LLM response: %s", cleaned)
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

var _ domain.QuestionGenerator = (*LLMQuestionGenerator)(nil)
