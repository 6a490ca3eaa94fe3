package handler

import (
	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/logger"
	"prepmate/internal/service"
	"prepmate/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InterviewHandler handles interview-related HTTP requests
type InterviewHandler struct {
	service   service.InterviewService
	validator *validation.Validator
}

// NewInterviewHandler creates a new InterviewHandler instance
func NewInterviewHandler(svc service.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		service:   svc,
		validator: validation.NewValidator(),
	}
}

// Start godoc
// @Summary Start a new interview session
// @Description Creates a session and returns the initial question batch. The question field is a JSON-encoded string holding a questions array.
// @Tags interview
// @Accept json
// @Produce json
// @Param request body dto.StartInterviewRequest true "Interview profile"
// @Success 200 {object} dto.StartInterviewResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /interview/start [post]
func (h *InterviewHandler) Start(c *fiber.Ctx) error {
	var req dto.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}

	if errs := h.validator.ValidateStartRequest(req.Role, req.Difficulty); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.Start(c.Context(), &req)
	if err != nil {
		logger.Get().Error("Failed to start interview",
			zap.Error(err),
			zap.String("role", req.Role))
		return err
	}
	return c.JSON(resp)
}

// CurrentQuestion godoc
// @Summary Get the current question
// @Description Returns the lowest-ID unanswered question of the session
// @Tags interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.CurrentQuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /interview/current/{session_id} [get]
func (h *InterviewHandler) CurrentQuestion(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.CurrentQuestion(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Evaluates the answer, returns feedback with a 0-10 score and, unless the interview completed, the next question
// @Tags interview
// @Accept json
// @Produce json
// @Param request body dto.SubmitAnswerRequest true "Answer details"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /interview/answer [post]
func (h *InterviewHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}

	if errs := h.validator.ValidateSubmitAnswerRequest(req.SessionID, req.QuestionID, req.Answer); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.SubmitAnswer(c.Context(), &req)
	if err != nil {
		logger.Get().Error("Failed to submit answer",
			zap.Error(err),
			zap.String("session_id", req.SessionID),
			zap.Int("question_id", req.QuestionID))
		return err
	}
	return c.JSON(resp)
}

// Status godoc
// @Summary Get session status
// @Tags interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionStatusResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /interview/status/{session_id} [get]
func (h *InterviewHandler) Status(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.Status(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Summary godoc
// @Summary Get the interview summary
// @Description Aggregates questions, answers, scores and an overall feedback narrative
// @Tags interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /interview/summary/{session_id} [get]
func (h *InterviewHandler) Summary(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.Summary(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Removes the session from the server-side store
// @Tags interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.DeleteSessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /interview/session/{session_id} [delete]
func (h *InterviewHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.DeleteSession(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
