package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prepmate/internal/client"
	"prepmate/internal/config"
	"prepmate/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *client.Client {
	return client.New(config.ClientConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_Start(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/interview/start", r.URL.Path)

		var req dto.StartInterviewRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Software Engineer", req.Role)
		assert.Equal(t, "medium", req.Difficulty)
		assert.Equal(t, []string{"go", "systems"}, req.Topics)

		batch, err := json.Marshal(dto.QuestionBatch{Questions: []dto.BatchQuestion{
			{Question: "What is a goroutine?", Category: "concurrency"},
			{Question: "Explain channels.", Category: "concurrency"},
		}})
		require.NoError(t, err)
		writeJSON(t, w, http.StatusOK, dto.StartInterviewResponse{
			SessionID:  "01HZXW3E8PYQ3N5V1T2M4K6R7S",
			Question:   string(batch),
			QuestionID: 0,
		})
	}))
	defer srv.Close()

	result, err := newTestClient(srv).Start(context.Background(), "Software Engineer", "medium", []string{"go", "systems"})
	require.NoError(t, err)

	assert.Equal(t, "01HZXW3E8PYQ3N5V1T2M4K6R7S", result.SessionID)
	require.Len(t, result.Questions, 2)
	// Position-based IDs assigned at the decode boundary.
	assert.Equal(t, 0, result.Questions[0].ID)
	assert.Equal(t, "What is a goroutine?", result.Questions[0].Text)
	assert.Equal(t, 1, result.Questions[1].ID)
}

func TestClient_Start_MalformedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, dto.StartInterviewResponse{
			SessionID: "01HZXW3E8PYQ3N5V1T2M4K6R7S",
			Question:  "not json",
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Start(context.Background(), "SE", "medium", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode question batch")
}

func TestClient_SubmitAnswer(t *testing.T) {
	nextID := 5
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/interview/answer", r.URL.Path)

		var req dto.SubmitAnswerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "01HZXW3E8PYQ3N5V1T2M4K6R7S", req.SessionID)
		assert.Equal(t, 0, req.QuestionID)
		assert.Equal(t, "my answer", req.Answer)

		writeJSON(t, w, http.StatusOK, dto.SubmitAnswerResponse{
			Feedback:       "Good job",
			Score:          7,
			NextQuestion:   "Explain X",
			NextQuestionID: &nextID,
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).SubmitAnswer(context.Background(), "01HZXW3E8PYQ3N5V1T2M4K6R7S", 0, "my answer")
	require.NoError(t, err)
	assert.Equal(t, 7.0, resp.Score)
	require.NotNil(t, resp.NextQuestionID)
	assert.Equal(t, 5, *resp.NextQuestionID)
	assert.False(t, resp.IsComplete)
}

func TestClient_SessionScopedGets(t *testing.T) {
	const sessionID = "01HZXW3E8PYQ3N5V1T2M4K6R7S"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/interview/current/" + sessionID:
			assert.Equal(t, http.MethodGet, r.Method)
			writeJSON(t, w, http.StatusOK, dto.CurrentQuestionResponse{Question: "Explain X", QuestionID: 3})
		case "/api/interview/status/" + sessionID:
			assert.Equal(t, http.MethodGet, r.Method)
			writeJSON(t, w, http.StatusOK, dto.SessionStatusResponse{SessionID: sessionID, State: "active"})
		case "/api/interview/summary/" + sessionID:
			assert.Equal(t, http.MethodGet, r.Method)
			writeJSON(t, w, http.StatusOK, dto.SummaryResponse{SessionID: sessionID, AverageScore: 7.4})
		case "/api/interview/session/" + sessionID:
			assert.Equal(t, http.MethodDelete, r.Method)
			writeJSON(t, w, http.StatusOK, dto.DeleteSessionResponse{SessionID: sessionID, Deleted: true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	ctx := context.Background()

	current, err := c.CurrentQuestion(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.QuestionID)

	status, err := c.Status(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "active", status.State)

	summary, err := c.Summary(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 7.4, summary.AverageScore)

	deleted, err := c.DeleteSession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, dto.ErrorResponse{Error: "session not found"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Status(context.Background(), "01HZXW3E8PYQ3N5V1T2M4K6R7S")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv).Status(context.Background(), "01HZXW3E8PYQ3N5V1T2M4K6R7S")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interview service request failed")
}
