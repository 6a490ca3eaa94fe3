package dto

import (
	"encoding/json"
	"prepmate/internal/domain"
)

// StartInterviewRequest is the request body for starting an interview
// @Description Request body for starting a new interview session
type StartInterviewRequest struct {
	Role       string   `json:"role"`
	Difficulty string   `json:"difficulty"`
	Topics     []string `json:"topics"`
}

// StartInterviewResponse is returned when a session is created.
//
// Question carries a JSON-encoded string holding the initial question
// batch (see QuestionBatch). The double encoding is part of the wire
// contract; clients must decode it through DecodeQuestionBatch.
type StartInterviewResponse struct {
	SessionID  string `json:"session_id"`
	Question   string `json:"question"`
	QuestionID int    `json:"question_id"`
}

// BatchQuestion is one entry of the encoded start batch. Entries carry
// no IDs; clients assign position-based IDs in batch order.
type BatchQuestion struct {
	Question         string   `json:"question"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty,omitempty"`
	TopicTags        []string `json:"topic_tags,omitempty"`
	IdealAnswerBrief string   `json:"ideal_answer_brief,omitempty"`
}

// QuestionBatch is the payload hidden inside StartInterviewResponse.Question.
type QuestionBatch struct {
	Questions []BatchQuestion `json:"questions"`
}

// EncodeQuestionBatch serializes a question batch into the JSON string
// embedded in the start response.
func EncodeQuestionBatch(questions []domain.Question) (string, error) {
	batch := QuestionBatch{Questions: make([]BatchQuestion, 0, len(questions))}
	for _, q := range questions {
		batch.Questions = append(batch.Questions, BatchQuestion{
			Question:         q.Text,
			Category:         q.Category,
			Difficulty:       q.Difficulty,
			TopicTags:        q.TopicTags,
			IdealAnswerBrief: q.IdealAnswerBrief,
		})
	}
	encoded, err := json.Marshal(batch)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// DecodeQuestionBatch parses the nested batch payload and assigns
// position-based question IDs. This is the single deserialization
// boundary for the double-encoded contract; everything past it deals
// only in typed domain.Question records.
func DecodeQuestionBatch(encoded string) ([]domain.Question, error) {
	var batch QuestionBatch
	if err := json.Unmarshal([]byte(encoded), &batch); err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(batch.Questions))
	for i, bq := range batch.Questions {
		questions = append(questions, domain.Question{
			ID:               i,
			Text:             bq.Question,
			Category:         bq.Category,
			Difficulty:       bq.Difficulty,
			TopicTags:        bq.TopicTags,
			IdealAnswerBrief: bq.IdealAnswerBrief,
		})
	}
	return questions, nil
}

// CurrentQuestionResponse is returned by the current-question endpoint
type CurrentQuestionResponse struct {
	Question   string `json:"question"`
	QuestionID int    `json:"question_id"`
}

// SubmitAnswerRequest is the request body for submitting an answer
// @Description Request body for submitting an answer to a question
type SubmitAnswerRequest struct {
	SessionID  string `json:"session_id"`
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// SubmitAnswerResponse carries the feedback for a submitted answer and,
// unless the interview is complete, the next question appended to the
// session's sequence.
type SubmitAnswerResponse struct {
	Feedback       string   `json:"feedback"`
	Score          float64  `json:"score"`
	Verdict        string   `json:"verdict,omitempty"`
	Strengths      []string `json:"strengths,omitempty"`
	Weaknesses     []string `json:"weaknesses,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
	NextQuestion   string   `json:"next_question,omitempty"`
	NextQuestionID *int     `json:"next_question_id,omitempty"`
	IsComplete     bool     `json:"is_complete"`
}

// SessionStatusResponse is returned by the status endpoint
type SessionStatusResponse struct {
	SessionID  string `json:"session_id"`
	State      string `json:"state"`
	IsComplete bool   `json:"is_complete"`
}

// QAEntryResponse is one question/answer tuple in the summary
type QAEntryResponse struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer,omitempty"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
	Answered bool    `json:"answered"`
}

// SummaryResponse is the aggregate report for a session
type SummaryResponse struct {
	SessionID           string            `json:"session_id"`
	Role                string            `json:"role"`
	Difficulty          string            `json:"difficulty"`
	Topics              []string          `json:"topics"`
	TotalQuestions      int               `json:"total_questions"`
	TotalAnswers        int               `json:"total_answers"`
	AverageScore        float64           `json:"average_score"`
	QuestionsAndAnswers []QAEntryResponse `json:"questions_and_answers"`
	OverallFeedback     string            `json:"overall_feedback"`
}

// DeleteSessionResponse confirms a server-side session removal
type DeleteSessionResponse struct {
	SessionID string `json:"session_id"`
	Deleted   bool   `json:"deleted"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
