package questiongen

import (
	"context"
	"errors"
	"testing"

	"prepmate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeLLM returns a canned response for every Call.
type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func TestGenerateQuestions_ParsesBatch(t *testing.T) {
	llm := &fakeLLM{response: `Here are your questions:
[
  {"question": "What is a goroutine?", "category": "concurrency", "difficulty": "medium", "topic_tags": ["go", "concurrency"], "ideal_answer_brief": "A lightweight thread managed by the Go runtime."},
  {"question": "Explain TCP slow start.", "category": "networking", "difficulty": "hard"}
]`}

	gen := NewLLMQuestionGenerator(llm, 0.7)
	profile := domain.GenerationProfile{
		Role:       "Backend Engineer",
		Difficulty: "medium",
		Topics:     []string{"go", "networking"},
	}

	questions, err := gen.GenerateQuestions(context.Background(), profile, 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "What is a goroutine?", questions[0].Text)
	assert.Equal(t, "concurrency", questions[0].Category)
	assert.Equal(t, []string{"go", "concurrency"}, questions[0].TopicTags)
	assert.Equal(t, "hard", questions[1].Difficulty)
}

func TestGenerateQuestions_StripsThinkBlocks(t *testing.T) {
	llm := &fakeLLM{response: `<think>planning the questions</think>
[{"question": "What is a channel?", "category": "concurrency", "difficulty": "easy"}]`}

	gen := NewLLMQuestionGenerator(llm, 0.7)
	questions, err := gen.GenerateQuestions(context.Background(), domain.GenerationProfile{Role: "Backend Engineer", Difficulty: "easy"}, 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "What is a channel?", questions[0].Text)
}

func TestGenerateQuestions_SkipsEntriesWithoutText(t *testing.T) {
	llm := &fakeLLM{response: `[
  {"question": "", "category": "misc"},
  {"question": "Describe a B-tree.", "category": "data structures", "difficulty": "bogus"}
]`}

	gen := NewLLMQuestionGenerator(llm, 0.7)
	questions, err := gen.GenerateQuestions(context.Background(), domain.GenerationProfile{Role: "Backend Engineer", Difficulty: "medium"}, 2)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	// Unknown difficulty falls back to the profile difficulty.
	assert.Equal(t, "medium", questions[0].Difficulty)
}

func TestGenerateQuestions_Errors(t *testing.T) {
	t.Run("LLMCallFails", func(t *testing.T) {
		gen := NewLLMQuestionGenerator(&fakeLLM{err: errors.New("connection refused")}, 0.7)
		_, err := gen.GenerateQuestions(context.Background(), domain.GenerationProfile{Role: "r", Difficulty: "easy"}, 1)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
	})

	t.Run("NoJSONArray", func(t *testing.T) {
		gen := NewLLMQuestionGenerator(&fakeLLM{response: "I cannot help with that."}, 0.7)
		_, err := gen.GenerateQuestions(context.Background(), domain.GenerationProfile{Role: "r", Difficulty: "easy"}, 1)
		assert.Error(t, err)
	})

	t.Run("AllEntriesUnusable", func(t *testing.T) {
		gen := NewLLMQuestionGenerator(&fakeLLM{response: `[{"question": ""}]`}, 0.7)
		_, err := gen.GenerateQuestions(context.Background(), domain.GenerationProfile{Role: "r", Difficulty: "easy"}, 1)
		assert.Error(t, err)
	})
}
