package handler

import (
	"errors"
	"net/http"

	"github.com/fyerfyer/resume-analyzer/api/middleware"
	"github.com/fyerfyer/resume-analyzer/api/model"
	"github.com/fyerfyer/resume-analyzer/internal/matcher"
	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/fyerfyer/resume-analyzer/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MatchHandler 职位匹配处理器
type MatchHandler struct {
	matchService *services.MatchService
	logger       *logrus.Logger
}

// NewMatchHandler 创建职位匹配处理器
func NewMatchHandler(matchService *services.MatchService, logger *logrus.Logger) *MatchHandler {
	if logger == nil {
		logger = middleware.GetLogger()
	}

	return &MatchHandler{
		matchService: matchService,
		logger:       logger,
	}
}

// Match 处理职位匹配请求
// POST /api/match
func (h *MatchHandler) Match(c *gin.Context) {
	var req model.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.TranslateBindingError(err))
		return
	}

	// resume_text和report_id必须二选一
	if req.ResumeText == "" && req.ReportID == "" {
		middleware.HandleError(c, middleware.NewValidationError(
			"either resume_text or report_id must be provided"))
		return
	}

	var result *matcher.MatchResult
	var err error

	if req.ReportID != "" {
		result, err = h.matchService.MatchReport(c.Request.Context(), req.ReportID, req.JobDescription)
	} else {
		result, err = h.matchService.MatchText(c.Request.Context(), req.ResumeText, req.JobDescription)
	}

	if err != nil {
		if errors.Is(err, models.ErrEmptyDocument) {
			middleware.HandleError(c, middleware.NewValidationError("resume text or job description is empty"))
			return
		}

		if errors.Is(err, models.ErrReportNotFound) {
			middleware.HandleError(c, middleware.NewNotFoundError("analysis report not found"))
			return
		}

		h.logger.WithError(err).Error("Failed to match resume against job description")
		middleware.HandleError(c, middleware.NewInternalError("failed to match resume against job description"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewMatchResponse(result)))
}
