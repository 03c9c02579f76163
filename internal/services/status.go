package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/fyerfyer/resume-analyzer/internal/repository"
	"github.com/sirupsen/logrus"
)

// ReportStatusManager 报告状态管理器
// 负责管理分析报告处理的生命周期状态
type ReportStatusManager struct {
	repo   repository.ReportRepository // 报告仓储接口
	logger *logrus.Logger              // 日志记录器
	mu     sync.Mutex                  // 互斥锁，保证状态转换的原子性
}

// NewReportStatusManager 创建报告状态管理器
func NewReportStatusManager(repo repository.ReportRepository, logger *logrus.Logger) *ReportStatusManager {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	return &ReportStatusManager{
		repo:   repo,
		logger: logger,
	}
}

// MarkAsPending 创建新的待处理报告记录
func (m *ReportStatusManager) MarkAsPending(ctx context.Context, report *models.AnalysisReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"report_id": report.ID,
		"filename":  report.FileName,
	}).Info("Marking report as pending")

	report.Status = models.ReportStatusPending
	report.UploadedAt = time.Now()
	report.UpdatedAt = time.Now()

	return m.repo.Create(report)
}

// MarkAsProcessing 将报告标记为处理中状态
func (m *ReportStatusManager) MarkAsProcessing(ctx context.Context, reportID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 获取当前报告
	report, err := m.repo.GetByID(reportID)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	// 检查状态转换的有效性
	if report.Status != models.ReportStatusPending && report.Status != models.ReportStatusFailed {
		return fmt.Errorf("invalid state transition: report %s is in %s state",
			reportID, report.Status)
	}

	m.logger.WithField("report_id", reportID).Info("Marking report as processing")

	return m.repo.UpdateStatus(reportID, models.ReportStatusProcessing, "")
}

// MarkAsCompleted 将报告标记为完成状态并写入分析结果
func (m *ReportStatusManager) MarkAsCompleted(ctx context.Context, reportID string, score int, signals []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 获取当前报告
	report, err := m.repo.GetByID(reportID)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	// 检查状态转换的有效性
	if report.Status != models.ReportStatusProcessing && report.Status != models.ReportStatusPending {
		return fmt.Errorf("invalid state transition: report %s is in %s state",
			reportID, report.Status)
	}

	m.logger.WithFields(logrus.Fields{
		"report_id": reportID,
		"score":     score,
	}).Info("Marking report as completed")

	// 写入分析结果
	if err := m.repo.UpdateResult(reportID, score, signals); err != nil {
		return err
	}

	return m.repo.UpdateStatus(reportID, models.ReportStatusCompleted, "")
}

// MarkAsFailed 将报告标记为处理失败状态
func (m *ReportStatusManager) MarkAsFailed(ctx context.Context, reportID string, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 获取当前报告
	_, err := m.repo.GetByID(reportID)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"report_id": reportID,
		"error":     errorMsg,
	}).Error("Marking report as failed")

	return m.repo.UpdateStatus(reportID, models.ReportStatusFailed, errorMsg)
}

// GetStatus 获取报告当前状态
func (m *ReportStatusManager) GetStatus(ctx context.Context, reportID string) (models.ReportStatus, error) {
	report, err := m.repo.GetByID(reportID)
	if err != nil {
		return "", fmt.Errorf("failed to get report status: %w", err)
	}
	return report.Status, nil
}

// GetReport 获取完整的报告对象
func (m *ReportStatusManager) GetReport(ctx context.Context, reportID string) (*models.AnalysisReport, error) {
	return m.repo.GetByID(reportID)
}

// UpdateReport 更新报告记录
func (m *ReportStatusManager) UpdateReport(ctx context.Context, report *models.AnalysisReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report.UpdatedAt = time.Now()
	return m.repo.Update(report)
}

// ListReports 获取报告列表
func (m *ReportStatusManager) ListReports(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.AnalysisReport, int64, error) {
	return m.repo.List(offset, limit, filters)
}

// DeleteReport 删除报告记录
func (m *ReportStatusManager) DeleteReport(ctx context.Context, reportID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithField("report_id", reportID).Info("Deleting report record")
	return m.repo.Delete(reportID)
}

// ValidateStateTransition 验证状态转换的有效性
func (m *ReportStatusManager) ValidateStateTransition(from, to models.ReportStatus) error {
	// 定义有效的状态转换
	validTransitions := map[models.ReportStatus][]models.ReportStatus{
		models.ReportStatusPending: {
			models.ReportStatusProcessing,
			models.ReportStatusCompleted, // 小文件可能直接完成
			models.ReportStatusFailed,    // 接收后可能立即失败
		},
		models.ReportStatusProcessing: {
			models.ReportStatusCompleted,
			models.ReportStatusFailed,
		},
		// 终态
		models.ReportStatusCompleted: {},
		models.ReportStatusFailed:    {models.ReportStatusProcessing}, // 允许重试
	}

	allowed := false
	for _, validTo := range validTransitions[from] {
		if validTo == to {
			allowed = true
			break
		}
	}

	if !allowed {
		return errors.New("invalid state transition")
	}

	return nil
}
