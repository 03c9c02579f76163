package taskqueue

import (
	"encoding/json"
	"time"
)

// TaskType 任务类型
type TaskType string

const (
	// TaskResumeAnalyze 简历分析任务
	TaskResumeAnalyze TaskType = "resume_analyze"
	// TaskJobMatch 职位匹配任务
	TaskJobMatch TaskType = "job_match"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	// StatusPending 等待处理
	StatusPending TaskStatus = "pending"
	// StatusProcessing 处理中
	StatusProcessing TaskStatus = "processing"
	// StatusCompleted 已完成
	StatusCompleted TaskStatus = "completed"
	// StatusFailed 处理失败
	StatusFailed TaskStatus = "failed"
)

// Task 任务基础结构
type Task struct {
	ID          string          `json:"id"`           // 任务唯一标识符
	Type        TaskType        `json:"type"`         // 任务类型
	ReportID    string          `json:"report_id"`    // 关联的报告ID
	Status      TaskStatus      `json:"status"`       // 任务状态
	Payload     json.RawMessage `json:"payload"`      // 任务载荷数据，不同任务类型对应不同结构
	Result      json.RawMessage `json:"result"`       // 任务结果数据，不同任务类型对应不同结构
	Error       string          `json:"error"`        // 错误信息（如果处理失败）
	CreatedAt   time.Time       `json:"created_at"`   // 创建时间
	UpdatedAt   time.Time       `json:"updated_at"`   // 更新时间
	StartedAt   *time.Time      `json:"started_at"`   // 开始处理时间
	CompletedAt *time.Time      `json:"completed_at"` // 完成时间
	Attempts    int             `json:"attempts"`     // 尝试次数
	MaxRetries  int             `json:"max_retries"`  // 最大重试次数
}

// ResumeAnalyzePayload 简历分析任务载荷
type ResumeAnalyzePayload struct {
	FilePath string `json:"file_path"` // 文件存储路径
	FileName string `json:"file_name"` // 文件名
	FileType string `json:"file_type"` // 文件类型
	FileID   string `json:"file_id"`   // 存储中的文件ID
}

// ResumeAnalyzeResult 简历分析任务结果
type ResumeAnalyzeResult struct {
	ReportID string `json:"report_id"` // 报告ID
	Score    int    `json:"score"`     // 简历分数
	Error    string `json:"error"`     // 错误信息（如果有）
}

// JobMatchPayload 职位匹配任务载荷
type JobMatchPayload struct {
	ReportID       string `json:"report_id"`       // 报告ID
	JobDescription string `json:"job_description"` // 职位描述文本
}

// JobMatchResult 职位匹配任务结果
type JobMatchResult struct {
	ReportID        string   `json:"report_id"`        // 报告ID
	Similarity      float64  `json:"similarity"`       // 相似度分数
	MissingKeywords []string `json:"missing_keywords"` // 缺失关键词
	Error           string   `json:"error"`            // 错误信息（如果有）
}
