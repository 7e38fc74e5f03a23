package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medexam/medexam-backend/internal/middleware"
	"github.com/medexam/medexam-backend/internal/model"
	"github.com/medexam/medexam-backend/internal/response"
	"github.com/medexam/medexam-backend/internal/service"
	"github.com/medexam/medexam-backend/internal/validator"
)

// StudentPortalHandler handles student-facing endpoints (exam taking, records).
type StudentPortalHandler struct {
	sessionService *service.ExamSessionService
	scoringService *service.ScoringService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	sessionService *service.ExamSessionService,
	scoringService *service.ScoringService,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		sessionService: sessionService,
		scoringService: scoringService,
	}
}

// ListPapers godoc
// GET /api/v1/exam/papers
// Returns published papers open to the student's category, overlaid with
// the student's own session state.
func (h *StudentPortalHandler) ListPapers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	papers, err := h.sessionService.ListAvailablePapers(c.Request.Context(), claims.UserID, claims.Category)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if papers == nil {
		papers = []service.AvailablePaper{}
	}

	response.Success(c, http.StatusOK, gin.H{"papers": papers})
}

// StartSession godoc
// POST /api/v1/exam/papers/:paper_id/start
// Starts a new session or resumes the active one (idempotent).
func (h *StudentPortalHandler) StartSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	paperID, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, resumed, err := h.sessionService.StartSession(c.Request.Context(), claims.UserID, claims.Category, paperID, req.ExamName)
	if err != nil {
		if ie, ok := service.AsIneligible(err); ok {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrIneligible, ie.Reason)
			return
		}
		switch {
		case errors.Is(err, service.ErrPaperNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrPaperNotFound)
		case errors.Is(err, service.ErrConfigNotFound):
			response.Fail(c, http.StatusInternalServerError, response.ErrConfigMissing)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session": session,
		"resumed": resumed,
	})
}

// GetPaperContent godoc
// GET /api/v1/exam/papers/:paper_id/content
// Returns the question payload from Redis (bypasses PostgreSQL).
// SECURITY: Requires an active session for this paper — prevents IDOR.
func (h *StudentPortalHandler) GetPaperContent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	paperID, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// SECURITY: Verify the student has an active session for this paper.
	// This prevents students from downloading papers they have not started.
	if err := h.sessionService.VerifyActiveSession(c.Request.Context(), claims.UserID, paperID); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	payload, err := h.sessionService.GetPaperContent(c.Request.Context(), paperID)
	if err != nil {
		if errors.Is(err, service.ErrPaperNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrPaperNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": payload})
}

// GetSessionState godoc
// GET /api/v1/exam/papers/:paper_id/state
// Returns the remaining time of the student's active session.
func (h *StudentPortalHandler) GetSessionState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	paperID, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.sessionService.GetSessionState(c.Request.Context(), claims.UserID, paperID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// SubmitSession godoc
// POST /api/v1/exam/sessions/:session_id/submit
// Scores the submitted answers and finalizes the session (exactly once).
func (h *StudentPortalHandler) SubmitSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.scoringService.Submit(c.Request.Context(), sessionID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrConfigNotFound):
			response.Fail(c, http.StatusInternalServerError, response.ErrConfigMissing)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// ListRecords godoc
// GET /api/v1/exam/records
// Returns the student's own exam history, newest first.
func (h *StudentPortalHandler) ListRecords(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	records, err := h.sessionService.ListRecords(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if records == nil {
		records = []model.ExamSession{}
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}

// GetRecordDetail godoc
// GET /api/v1/exam/records/:record_id
// Returns one finished session with its per-question answer breakdown.
// Ownership is enforced; other users' records read as not found.
func (h *StudentPortalHandler) GetRecordDetail(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	recordID, err := uuid.Parse(c.Param("record_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, answers, err := h.sessionService.GetRecordDetail(c.Request.Context(), claims.UserID, recordID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if answers == nil {
		answers = []model.ExamAnswer{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"record":  session,
		"answers": answers,
	})
}
