package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medexam/medexam-backend/internal/middleware"
	"github.com/medexam/medexam-backend/internal/model"
	"github.com/medexam/medexam-backend/internal/repository"
	"github.com/medexam/medexam-backend/internal/response"
	"github.com/medexam/medexam-backend/internal/service"
	"github.com/medexam/medexam-backend/internal/validator"
)

// AdminHandler handles administrative endpoints (retake overrides, results).
type AdminHandler struct {
	retakeService  *service.RetakeService
	sessionService *service.ExamSessionService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	retakeService *service.RetakeService,
	sessionService *service.ExamSessionService,
) *AdminHandler {
	return &AdminHandler{
		retakeService:  retakeService,
		sessionService: sessionService,
	}
}

// SetRetake godoc
// PUT /api/v1/admin/retakes
// Grants a user a one-shot retake of a paper. Idempotent.
func (h *AdminHandler) SetRetake(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SetRetakeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.retakeService.SetOverride(c.Request.Context(), claims.UserID, req.UserID, req.PaperID, req.Remark); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ClearRetake godoc
// DELETE /api/v1/admin/retakes/:user_id/:paper_id
// Revokes an unconsumed retake grant. Clearing an absent grant is a no-op.
func (h *AdminHandler) ClearRetake(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paperID, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.retakeService.ClearOverride(c.Request.Context(), claims.UserID, userID, paperID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetPaperResults godoc
// GET /api/v1/admin/papers/:paper_id/results?page=1&per_page=10
// Returns finished sessions for a paper with the taker's identity attached.
func (h *AdminHandler) GetPaperResults(c *gin.Context) {
	paperID, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	results, total, err := h.sessionService.ListPaperResults(c.Request.Context(), paperID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if results == nil {
		results = []repository.PaperResult{}
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	})
}
