package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportStatus 分析报告处理状态类型
type ReportStatus string

const (
	// ReportStatusPending 简历已接收，等待分析
	ReportStatusPending ReportStatus = "pending"
	// ReportStatusProcessing 分析进行中
	ReportStatusProcessing ReportStatus = "processing"
	// ReportStatusCompleted 分析完成
	ReportStatusCompleted ReportStatus = "completed"
	// ReportStatusFailed 分析失败
	ReportStatusFailed ReportStatus = "failed"
)

// ReportSource 报告来源类型
type ReportSource string

const (
	// SourceText 直接提交的文本
	SourceText ReportSource = "text"
	// SourceUpload 上传的简历文件
	SourceUpload ReportSource = "upload"
)

// AnalysisReport 简历分析报告数据模型
// 存储信号报告、分数和处理状态
type AnalysisReport struct {
	ID          string         `gorm:"primaryKey"`         // 报告ID，主键
	FileName    string         `gorm:"size:255"`           // 原始文件名（上传来源时有效）
	FileType    string         `gorm:"size:20"`            // 文件类型
	FilePath    string         `gorm:"size:512"`           // 文件存储路径
	FileSize    int64          `gorm:"default:0"`          // 文件大小（字节）
	Source      ReportSource   `gorm:"not null;size:10"`   // 报告来源
	Status      ReportStatus   `gorm:"not null;index"`     // 处理状态
	Score       int            `gorm:"not null;default:0"` // 简历分数 [0,100]
	Signals     datatypes.JSON `gorm:"type:json"`          // 信号报告，JSON格式
	Error       string         `gorm:"type:text"`          // 错误信息
	Tags        string         `gorm:"type:varchar(255)"`  // 标签，逗号分隔
	TaskID      string         `gorm:"size:50;index"`      // 关联的异步任务ID
	UploadedAt  time.Time      `gorm:"not null;index"`     // 接收时间
	ProcessedAt *time.Time     `gorm:"index"`              // 分析完成时间
	UpdatedAt   time.Time      `gorm:"not null;index"`     // 更新时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (r *AnalysisReport) BeforeCreate(tx *gorm.DB) (err error) {
	if r.UploadedAt.IsZero() {
		r.UploadedAt = time.Now()
	}
	r.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (r *AnalysisReport) BeforeUpdate(tx *gorm.DB) (err error) {
	r.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (AnalysisReport) TableName() string {
	return "analysis_reports"
}

// MatchRecord 职位匹配记录数据模型
// 保存简历与职位描述的匹配历史
type MatchRecord struct {
	ID              uint           `gorm:"primaryKey;autoIncrement"` // 主键ID
	ReportID        string         `gorm:"size:50;index"`            // 关联的分析报告ID（可选）
	Similarity      float64        `gorm:"not null"`                 // 相似度分数 [0,100]
	MissingKeywords datatypes.JSON `gorm:"type:json"`                // 缺失关键词列表，JSON格式
	CreatedAt       time.Time      `gorm:"not null;index"`           // 创建时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (m *MatchRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (MatchRecord) TableName() string {
	return "match_records"
}
