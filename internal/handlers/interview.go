package handlers

import (
	"errors"
	"net/http"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/engine"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	interviews *services.InterviewService
}

func NewInterviewHandler(interviews *services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// CreateSession godoc
// @Summary      Start a mock interview session
// @Description  Generates a question set for the role/type/difficulty and starts the session
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        request body services.CreateSessionInput true "Session config"
// @Success      201 {object} SessionView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/interviews [post]
func (h *InterviewHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.interviews.CreateSession(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, view)
}

// ListSessions godoc
// @Summary      List interview sessions
// @Produce      json
// @Success      200 {array} SessionSummary
// @Router       /api/v1/interviews [get]
func (h *InterviewHandler) ListSessions(c *gin.Context) {
	sessions, err := h.interviews.ListSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary      Get session state
// @Description  Live state for in-memory sessions, persisted record otherwise
// @Tags         interviews
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionView
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/interviews/{id} [get]
func (h *InterviewHandler) GetSession(c *gin.Context) {
	view, err := h.interviews.GetSession(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// SubmitAnswer godoc
// @Summary      Submit an answer for the current question
// @Description  Evaluates the answer via the AI provider, falling back to heuristic scoring
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body SubmitAnswerRequest true "Answer text"
// @Success      200 {object} AnswerView
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/interviews/{id}/answer [post]
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.interviews.SubmitAnswer(c.Request.Context(), c.Param("id"), req.Answer)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Advance godoc
// @Summary      Advance to the next question
// @Description  Requires the current question to be answered; on the last question completes the session
// @Tags         interviews
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionView
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/interviews/{id}/next [post]
func (h *InterviewHandler) Advance(c *gin.Context) {
	view, err := h.interviews.Advance(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Skip godoc
// @Summary      Skip the current question
// @Description  Permanently abandons the current unanswered question and advances
// @Tags         interviews
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionView
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/interviews/{id}/skip [post]
func (h *InterviewHandler) Skip(c *gin.Context) {
	view, err := h.interviews.Skip(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Pause godoc
// @Summary      Pause the session
// @Tags         interviews
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/interviews/{id}/pause [post]
func (h *InterviewHandler) Pause(c *gin.Context) {
	view, err := h.interviews.Pause(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Resume godoc
// @Summary      Resume a paused session
// @Tags         interviews
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/interviews/{id}/resume [post]
func (h *InterviewHandler) Resume(c *gin.Context) {
	view, err := h.interviews.Resume(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type JumpRequest struct {
	Index int `json:"index" example:"1"`
}

// JumpTo godoc
// @Summary      Jump to an answered question
// @Description  Only indexes that are already answered (or current) are allowed
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body JumpRequest true "Target index"
// @Success      200 {object} SessionView
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/interviews/{id}/jump [post]
func (h *InterviewHandler) JumpTo(c *gin.Context) {
	var req JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.interviews.JumpTo(c.Param("id"), req.Index)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ResumeSession godoc
// @Summary      Rebuild a live session from its persisted record
// @Description  Restores config, answered questions and the original start time
// @Tags         interviews
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionView
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/interviews/{id}/restore [post]
func (h *InterviewHandler) ResumeSession(c *gin.Context) {
	view, err := h.interviews.ResumeSession(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *InterviewHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrSessionCompleted), errors.Is(err, services.ErrSessionLive),
		errors.Is(err, engine.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}
