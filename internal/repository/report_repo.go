package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyerfyer/resume-analyzer/internal/database"
	"github.com/fyerfyer/resume-analyzer/internal/models"
	"gorm.io/gorm"
)

// reportRepository 报告仓储实现
type reportRepository struct {
	db *gorm.DB // 数据库连接
}

// NewReportRepository 创建报告仓储实例
func NewReportRepository() ReportRepository {
	return &reportRepository{
		db: database.MustDB(),
	}
}

// NewReportRepositoryWithDB 使用指定的数据库连接创建报告仓储实例
func NewReportRepositoryWithDB(db *gorm.DB) ReportRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &reportRepository{
		db: db,
	}
}

// Create 创建报告记录
func (r *reportRepository) Create(report *models.AnalysisReport) error {
	if report.ID == "" {
		return errors.New("report ID cannot be empty")
	}

	return r.db.Create(report).Error
}

// Update 更新报告记录
func (r *reportRepository) Update(report *models.AnalysisReport) error {
	if report.ID == "" {
		return errors.New("report ID cannot be empty")
	}

	return r.db.Save(report).Error
}

// GetByID 根据ID获取报告
func (r *reportRepository) GetByID(id string) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	err := r.db.Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrReportNotFound, id)
		}
		return nil, err
	}
	return &report, nil
}

// List 列出报告列表，支持分页和筛选
func (r *reportRepository) List(offset, limit int, filters map[string]interface{}) ([]*models.AnalysisReport, int64, error) {
	var reports []*models.AnalysisReport
	var total int64

	// 创建查询构造器
	query := r.db.Model(&models.AnalysisReport{})

	// 应用筛选条件
	if filters != nil {
		// 状态过滤
		if status, ok := filters["status"]; ok {
			switch s := status.(type) {
			case models.ReportStatus:
				query = query.Where("status = ?", string(s))
			case string:
				if s != "" {
					query = query.Where("status = ?", s)
				}
			}
		}

		// 标签过滤
		if tags, ok := filters["tags"].(string); ok && tags != "" {
			query = query.Where("tags LIKE ?", "%"+tags+"%")
		}

		// 时间范围过滤
		if startTime, ok := filters["start_time"]; ok {
			switch v := startTime.(type) {
			case time.Time:
				query = query.Where("uploaded_at >= ?", v)
			case string:
				if v != "" {
					query = query.Where("uploaded_at >= ?", v)
				}
			}
		}

		if endTime, ok := filters["end_time"]; ok {
			switch v := endTime.(type) {
			case time.Time:
				query = query.Where("uploaded_at <= ?", v)
			case string:
				if v != "" {
					query = query.Where("uploaded_at <= ?", v)
				}
			}
		}

		// 文件名过滤
		if fileName, ok := filters["file_name"].(string); ok && fileName != "" {
			query = query.Where("file_name LIKE ?", "%"+fileName+"%")
		}
	}

	// 获取总数
	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	// 应用排序、分页并执行查询
	err = query.Order("uploaded_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error

	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// Delete 删除报告记录及其匹配历史
func (r *reportRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 1. 删除关联的匹配记录
		if err := tx.Where("report_id = ?", id).Delete(&models.MatchRecord{}).Error; err != nil {
			return err
		}

		// 2. 删除报告记录
		return tx.Where("id = ?", id).Delete(&models.AnalysisReport{}).Error
	})
}

// UpdateStatus 更新报告状态
func (r *reportRepository) UpdateStatus(id string, status models.ReportStatus, errorMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}

	// 如果有错误消息，更新错误字段
	if errorMsg != "" {
		updates["error"] = errorMsg
	}

	// 如果状态是已完成或失败，设置处理完成时间
	if status == models.ReportStatusCompleted || status == models.ReportStatusFailed {
		now := time.Now()
		updates["processed_at"] = &now
	}

	return r.db.Model(&models.AnalysisReport{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateResult 更新报告的分析结果
func (r *reportRepository) UpdateResult(id string, score int, signals []byte) error {
	return r.db.Model(&models.AnalysisReport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":      score,
			"signals":    signals,
			"updated_at": time.Now(),
		}).Error
}
