package services

import (
	"context"
	"fmt"

	"github.com/fyerfyer/resume-analyzer/pkg/taskqueue"
	"github.com/sirupsen/logrus"
)

// ResumeAnalyzeHandler 简历分析任务处理器
// 实现taskqueue.Handler接口，由工作者进程调用
type ResumeAnalyzeHandler struct {
	service *AnalyzerService // 分析服务
	logger  *logrus.Logger   // 日志记录器
}

// NewResumeAnalyzeHandler 创建简历分析任务处理器
func NewResumeAnalyzeHandler(service *AnalyzerService, logger *logrus.Logger) *ResumeAnalyzeHandler {
	if logger == nil {
		logger = logrus.New()
	}

	return &ResumeAnalyzeHandler{
		service: service,
		logger:  logger,
	}
}

// ProcessTask 处理简历分析任务
func (h *ResumeAnalyzeHandler) ProcessTask(ctx context.Context, task *taskqueue.Task) error {
	h.logger.WithFields(logrus.Fields{
		"task_id":   task.ID,
		"report_id": task.ReportID,
	}).Info("Processing resume analysis task")

	var payload taskqueue.ResumeAnalyzePayload
	if err := taskqueue.UnmarshalPayload(task.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", taskqueue.ErrInvalidPayload, err)
	}

	if task.ReportID == "" || payload.FileID == "" {
		return taskqueue.ErrInvalidPayload
	}

	if err := h.service.ProcessFile(ctx, task.ReportID, payload.FileID); err != nil {
		h.logger.WithError(err).WithField("report_id", task.ReportID).Error("Resume analysis task failed")
		return err
	}

	// 更新任务结果
	report, err := h.service.GetReport(ctx, task.ReportID)
	if err == nil && h.service.taskQueue != nil {
		result := taskqueue.ResumeAnalyzeResult{
			ReportID: report.ID,
			Score:    report.Score,
		}
		if err := h.service.taskQueue.UpdateTaskStatus(ctx, task.ID, taskqueue.StatusCompleted, result, ""); err != nil {
			h.logger.WithError(err).Warn("Failed to attach result to task")
		}
	}

	return nil
}

// GetTaskTypes 返回此处理器支持的任务类型
func (h *ResumeAnalyzeHandler) GetTaskTypes() []taskqueue.TaskType {
	return []taskqueue.TaskType{taskqueue.TaskResumeAnalyze}
}
