package repository

import (
	"github.com/fyerfyer/resume-analyzer/internal/models"
)

// ReportRepository 分析报告仓储接口
// 定义报告记录的持久化操作
type ReportRepository interface {
	// Create 创建报告记录
	Create(report *models.AnalysisReport) error

	// Update 更新报告记录
	Update(report *models.AnalysisReport) error

	// GetByID 根据ID获取报告
	GetByID(id string) (*models.AnalysisReport, error)

	// List 列出报告列表，支持分页和筛选
	List(offset, limit int, filters map[string]interface{}) ([]*models.AnalysisReport, int64, error)

	// Delete 删除报告记录
	Delete(id string) error

	// UpdateStatus 更新报告状态
	UpdateStatus(id string, status models.ReportStatus, errorMsg string) error

	// UpdateResult 更新报告的分析结果
	UpdateResult(id string, score int, signals []byte) error
}

// MatchRepository 匹配记录仓储接口
type MatchRepository interface {
	// Create 创建匹配记录
	Create(record *models.MatchRecord) error

	// ListByReport 列出指定报告的匹配历史
	ListByReport(reportID string, limit int) ([]*models.MatchRecord, error)
}
