package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fyerfyer/resume-analyzer/api/middleware"
	"github.com/fyerfyer/resume-analyzer/api/model"
	"github.com/fyerfyer/resume-analyzer/internal/analyzer"
	"github.com/fyerfyer/resume-analyzer/internal/document"
	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/fyerfyer/resume-analyzer/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 时间格式
const timeFormat = "2006-01-02 15:04:05"

// ResumeHandler 简历文件处理器
// 负责简历文件的上传、报告查询和删除
type ResumeHandler struct {
	analyzerService *services.AnalyzerService
	logger          *logrus.Logger
}

// NewResumeHandler 创建简历文件处理器
func NewResumeHandler(analyzerService *services.AnalyzerService, logger *logrus.Logger) *ResumeHandler {
	if logger == nil {
		logger = middleware.GetLogger()
	}

	return &ResumeHandler{
		analyzerService: analyzerService,
		logger:          logger,
	}
}

// Upload 处理简历文件上传请求
// POST /api/resumes
func (h *ResumeHandler) Upload(c *gin.Context) {
	var req model.ResumeUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleError(c, middleware.TranslateBindingError(err))
		return
	}

	// 打开上传的文件
	file, err := req.File.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded file")
		middleware.HandleError(c, middleware.NewInternalError("failed to open uploaded file"))
		return
	}
	defer file.Close()

	report, err := h.analyzerService.AnalyzeUpload(c.Request.Context(), file, req.File.Filename)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedType) {
			middleware.HandleError(c, middleware.NewValidationError(
				"unsupported file type, only pdf, markdown and plain text are allowed"))
			return
		}

		if errors.Is(err, models.ErrEmptyDocument) {
			middleware.HandleError(c, middleware.NewValidationError("resume file is empty"))
			return
		}

		h.logger.WithError(err).WithField("filename", req.File.Filename).Error("Failed to process uploaded resume")
		middleware.HandleError(c, middleware.NewInternalError("failed to process uploaded resume"))
		return
	}

	// 保存标签，写入失败不影响上传结果
	if req.Tags != "" {
		if err := h.updateTags(c, report, req.Tags); err != nil {
			h.logger.WithError(err).Warn("Failed to save report tags")
		}
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ResumeUploadResponse{
		ReportID: report.ID,
		FileName: report.FileName,
		Status:   string(report.Status),
		TaskID:   report.TaskID,
	}))
}

// List 处理报告列表查询请求
// GET /api/resumes
func (h *ResumeHandler) List(c *gin.Context) {
	var req model.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.TranslateBindingError(err))
		return
	}

	// 构建过滤条件
	filters := make(map[string]interface{})
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.Tags != "" {
		filters["tags"] = req.Tags
	}
	if req.FileName != "" {
		filters["file_name"] = req.FileName
	}
	if req.StartTime != nil {
		filters["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		filters["end_time"] = *req.EndTime
	}

	offset := (req.GetPage() - 1) * req.GetPageSize()
	reports, total, err := h.analyzerService.ListReports(c.Request.Context(), offset, req.GetPageSize(), filters)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reports")
		middleware.HandleError(c, middleware.NewInternalError("failed to list reports"))
		return
	}

	infos := make([]model.ReportInfo, 0, len(reports))
	for _, report := range reports {
		infos = append(infos, model.ReportInfo{
			ReportID:   report.ID,
			FileName:   report.FileName,
			Source:     string(report.Source),
			Status:     string(report.Status),
			Score:      report.Score,
			Tags:       report.Tags,
			UploadTime: report.UploadedAt,
		})
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ReportListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Reports:  infos,
	}))
}

// Get 处理报告详情查询请求
// GET /api/resumes/:id
func (h *ResumeHandler) Get(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.TranslateBindingError(err))
		return
	}

	report, err := h.analyzerService.GetReport(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, models.ErrReportNotFound) {
			middleware.HandleError(c, middleware.NewNotFoundError("analysis report not found"))
			return
		}

		h.logger.WithError(err).WithField("report_id", req.ID).Error("Failed to get report")
		middleware.HandleError(c, middleware.NewInternalError("failed to get report"))
		return
	}

	resp := model.ReportDetailResponse{
		ReportID:   report.ID,
		FileName:   report.FileName,
		Source:     string(report.Source),
		Status:     string(report.Status),
		Score:      report.Score,
		Error:      report.Error,
		UploadedAt: report.UploadedAt.Format(timeFormat),
	}

	if report.ProcessedAt != nil {
		resp.ProcessedAt = report.ProcessedAt.Format(timeFormat)
	}

	// 还原信号报告
	if len(report.Signals) > 0 {
		var signals analyzer.SignalReport
		if err := json.Unmarshal(report.Signals, &signals); err != nil {
			h.logger.WithError(err).WithField("report_id", req.ID).Warn("Failed to unmarshal report signals")
		} else {
			resp.Signals = &signals
		}
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// Status 处理报告状态查询请求
// GET /api/resumes/:id/status
func (h *ResumeHandler) Status(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.TranslateBindingError(err))
		return
	}

	report, err := h.analyzerService.GetReport(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, models.ErrReportNotFound) {
			middleware.HandleError(c, middleware.NewNotFoundError("analysis report not found"))
			return
		}

		h.logger.WithError(err).WithField("report_id", req.ID).Error("Failed to get report status")
		middleware.HandleError(c, middleware.NewInternalError("failed to get report status"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ReportStatusResponse{
		ReportID:  report.ID,
		Status:    string(report.Status),
		FileName:  report.FileName,
		Error:     report.Error,
		CreatedAt: report.UploadedAt.Format(timeFormat),
		UpdatedAt: report.UpdatedAt.Format(timeFormat),
	}))
}

// Delete 处理报告删除请求
// DELETE /api/resumes/:id
func (h *ResumeHandler) Delete(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.TranslateBindingError(err))
		return
	}

	if err := h.analyzerService.DeleteReport(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, models.ErrReportNotFound) {
			middleware.HandleError(c, middleware.NewNotFoundError("analysis report not found"))
			return
		}

		h.logger.WithError(err).WithField("report_id", req.ID).Error("Failed to delete report")
		middleware.HandleError(c, middleware.NewInternalError("failed to delete report"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ReportDeleteResponse{
		Success:  true,
		ReportID: req.ID,
	}))
}

// updateTags 更新报告标签
func (h *ResumeHandler) updateTags(c *gin.Context, report *models.AnalysisReport, tags string) error {
	report.Tags = tags
	manager := h.analyzerService.GetStatusManager()
	if manager == nil {
		return nil
	}
	return manager.UpdateReport(c.Request.Context(), report)
}
