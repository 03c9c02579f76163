package model

import (
	"time"

	"github.com/fyerfyer/resume-analyzer/internal/analyzer"
	"github.com/fyerfyer/resume-analyzer/internal/matcher"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// AnalyzeResponse 简历文本分析响应
type AnalyzeResponse struct {
	ReportID string                 `json:"report_id"` // 报告ID
	Score    int                    `json:"score"`     // 简历分数 [0,100]
	Signals  *analyzer.SignalReport `json:"signals"`   // 信号报告
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	ReportID string `json:"report_id"` // 报告ID
	FileName string `json:"filename"`  // 文件名
	Status   string `json:"status"`    // 报告状态：pending、processing、completed、failed
	TaskID   string `json:"task_id,omitempty"` // 异步任务ID（异步模式下有效）
}

// ReportStatusResponse 报告状态查询响应
type ReportStatusResponse struct {
	ReportID  string `json:"report_id"`       // 报告ID
	Status    string `json:"status"`          // 处理状态
	FileName  string `json:"filename"`        // 文件名
	Error     string `json:"error,omitempty"` // 错误信息（如果有）
	CreatedAt string `json:"created_at"`      // 创建时间
	UpdatedAt string `json:"updated_at"`      // 更新时间
}

// ReportInfo 报告信息
type ReportInfo struct {
	ReportID   string    `json:"report_id"`   // 报告ID
	FileName   string    `json:"filename"`    // 文件名
	Source     string    `json:"source"`      // 报告来源：text、upload
	Status     string    `json:"status"`      // 状态
	Score      int       `json:"score"`       // 简历分数
	Tags       string    `json:"tags"`        // 标签
	UploadTime time.Time `json:"upload_time"` // 接收时间
}

// ReportListResponse 报告列表响应
type ReportListResponse struct {
	Total    int64        `json:"total"`     // 总数量
	Page     int          `json:"page"`      // 当前页码
	PageSize int          `json:"page_size"` // 每页大小
	Reports  []ReportInfo `json:"reports"`   // 报告列表
}

// ReportDetailResponse 报告详情响应
type ReportDetailResponse struct {
	ReportID    string                 `json:"report_id"`              // 报告ID
	FileName    string                 `json:"filename,omitempty"`     // 文件名
	Source      string                 `json:"source"`                 // 报告来源
	Status      string                 `json:"status"`                 // 状态
	Score       int                    `json:"score"`                  // 简历分数
	Signals     *analyzer.SignalReport `json:"signals,omitempty"`      // 信号报告
	Error       string                 `json:"error,omitempty"`        // 错误信息
	UploadedAt  string                 `json:"uploaded_at"`            // 接收时间
	ProcessedAt string                 `json:"processed_at,omitempty"` // 处理完成时间
}

// ReportDeleteResponse 报告删除响应
type ReportDeleteResponse struct {
	Success  bool   `json:"success"`   // 是否成功
	ReportID string `json:"report_id"` // 报告ID
}

// MatchResponse 职位匹配响应
type MatchResponse struct {
	Similarity      float64  `json:"similarity"`       // 相似度分数 [0,100]
	MissingKeywords []string `json:"missing_keywords"` // 缺失关键词列表
}

// NewMatchResponse 从匹配结果构建响应
func NewMatchResponse(result *matcher.MatchResult) *MatchResponse {
	return &MatchResponse{
		Similarity:      result.Similarity,
		MissingKeywords: result.MissingKeywords,
	}
}
