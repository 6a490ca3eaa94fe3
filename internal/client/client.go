// Package client is a thin typed wrapper over the interview service's
// REST API. It issues JSON requests, decodes responses into typed
// records and surfaces any non-2xx status as a generic error. No retry,
// no caching.
package client

import (
	"context"
	"fmt"

	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/dto"

	"github.com/go-resty/resty/v2"
)

// StartResult is the decoded outcome of starting an interview. Questions
// holds the initial batch parsed out of the double-encoded start payload,
// with position-based IDs already assigned.
type StartResult struct {
	SessionID string
	Questions []domain.Question
}

// InterviewAPI is the operation surface the session state machine needs.
type InterviewAPI interface {
	Start(ctx context.Context, role, difficulty string, topics []string) (*StartResult, error)
	CurrentQuestion(ctx context.Context, sessionID string) (*dto.CurrentQuestionResponse, error)
	SubmitAnswer(ctx context.Context, sessionID string, questionID int, answer string) (*dto.SubmitAnswerResponse, error)
	Status(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error)
	Summary(ctx context.Context, sessionID string) (*dto.SummaryResponse, error)
	DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteSessionResponse, error)
}

// Client implements InterviewAPI over HTTP.
type Client struct {
	http *resty.Client
}

// New creates a Client for the given base URL.
func New(cfg config.ClientConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: httpClient}
}

// Start begins a new interview and decodes the embedded question batch.
func (c *Client) Start(ctx context.Context, role, difficulty string, topics []string) (*StartResult, error) {
	var out dto.StartInterviewResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(dto.StartInterviewRequest{Role: role, Difficulty: difficulty, Topics: topics}).
		SetResult(&out).
		Post("/api/interview/start")
	if err := surface(resp, err); err != nil {
		return nil, err
	}

	questions, err := dto.DecodeQuestionBatch(out.Question)
	if err != nil {
		return nil, fmt.Errorf("failed to decode question batch: %w", err)
	}
	return &StartResult{
		SessionID: out.SessionID,
		Questions: questions,
	}, nil
}

// CurrentQuestion fetches the session's current question.
func (c *Client) CurrentQuestion(ctx context.Context, sessionID string) (*dto.CurrentQuestionResponse, error) {
	var out dto.CurrentQuestionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/interview/current/" + sessionID)
	if err := surface(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAnswer submits an answer and returns its feedback.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID string, questionID int, answer string) (*dto.SubmitAnswerResponse, error) {
	var out dto.SubmitAnswerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(dto.SubmitAnswerRequest{SessionID: sessionID, QuestionID: questionID, Answer: answer}).
		SetResult(&out).
		Post("/api/interview/answer")
	if err := surface(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches the session's lifecycle state.
func (c *Client) Status(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error) {
	var out dto.SessionStatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/interview/status/" + sessionID)
	if err := surface(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary fetches the aggregate interview report.
func (c *Client) Summary(ctx context.Context, sessionID string) (*dto.SummaryResponse, error) {
	var out dto.SummaryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/interview/summary/" + sessionID)
	if err := surface(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession removes the session server-side.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) (*dto.DeleteSessionResponse, error) {
	var out dto.DeleteSessionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Delete("/api/interview/session/" + sessionID)
	if err := surface(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// surface collapses transport failures and non-2xx statuses into one
// generic error shape carrying the HTTP status line.
func surface(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("interview service request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("interview service returned %s", resp.Status())
	}
	return nil
}

var _ InterviewAPI = (*Client)(nil)
