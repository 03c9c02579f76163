package handler

import (
	"errors"
	"net/http"

	"github.com/fyerfyer/resume-analyzer/api/middleware"
	"github.com/fyerfyer/resume-analyzer/api/model"
	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/fyerfyer/resume-analyzer/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalyzeHandler 简历文本分析处理器
type AnalyzeHandler struct {
	analyzerService *services.AnalyzerService
	logger          *logrus.Logger
}

// NewAnalyzeHandler 创建简历文本分析处理器
func NewAnalyzeHandler(analyzerService *services.AnalyzerService, logger *logrus.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = middleware.GetLogger()
	}

	return &AnalyzeHandler{
		analyzerService: analyzerService,
		logger:          logger,
	}
}

// AnalyzeText 处理简历文本分析请求
// POST /api/analyze
func (h *AnalyzeHandler) AnalyzeText(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.TranslateBindingError(err))
		return
	}

	result, err := h.analyzerService.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, models.ErrEmptyDocument) {
			middleware.HandleError(c, middleware.NewValidationError("resume text is empty"))
			return
		}

		h.logger.WithError(err).Error("Failed to analyze resume text")
		middleware.HandleError(c, middleware.NewInternalError("failed to analyze resume text"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.AnalyzeResponse{
		ReportID: result.ReportID,
		Score:    result.Score,
		Signals:  result.Signals,
	}))
}
