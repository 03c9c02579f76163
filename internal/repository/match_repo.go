package repository

import (
	"github.com/fyerfyer/resume-analyzer/internal/database"
	"gorm.io/gorm"

	"github.com/fyerfyer/resume-analyzer/internal/models"
)

// matchRepository 匹配记录仓储实现
type matchRepository struct {
	db *gorm.DB // 数据库连接
}

// NewMatchRepository 创建匹配记录仓储实例
func NewMatchRepository() MatchRepository {
	return &matchRepository{
		db: database.MustDB(),
	}
}

// NewMatchRepositoryWithDB 使用指定的数据库连接创建匹配记录仓储实例
func NewMatchRepositoryWithDB(db *gorm.DB) MatchRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &matchRepository{
		db: db,
	}
}

// Create 创建匹配记录
func (r *matchRepository) Create(record *models.MatchRecord) error {
	return r.db.Create(record).Error
}

// ListByReport 列出指定报告的匹配历史，按时间倒序
func (r *matchRepository) ListByReport(reportID string, limit int) ([]*models.MatchRecord, error) {
	var records []*models.MatchRecord
	query := r.db.Where("report_id = ?", reportID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}
