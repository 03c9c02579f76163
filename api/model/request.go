package model

import (
	"mime/multipart"
	"time"
)

// PaginationRequest 分页请求参数
type PaginationRequest struct {
	Page     int `form:"page" json:"page" binding:"omitempty,min=1"`           // 当前页码，从1开始
	PageSize int `form:"page_size" json:"page_size" binding:"omitempty,min=1"` // 每页记录数
}

// GetPage 获取页码，默认为1
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页记录数，默认为10，最大为100
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 10
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// AnalyzeRequest 简历文本分析请求
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"` // 简历文本内容
}

// ResumeUploadRequest 简历文件上传请求
type ResumeUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`  // 文件对象
	Tags string                `form:"tags" binding:"omitempty"` // 标签，逗号分隔
}

// ReportRequest 报告查询请求
type ReportRequest struct {
	ID string `uri:"id" binding:"required"` // 报告ID
}

// ReportListRequest 报告列表请求
type ReportListRequest struct {
	PaginationRequest
	StartTime *time.Time `form:"start_time" json:"start_time" binding:"omitempty"` // 开始时间
	EndTime   *time.Time `form:"end_time" json:"end_time" binding:"omitempty"`     // 结束时间
	Status    string     `form:"status" json:"status" binding:"omitempty"`         // 报告状态
	Tags      string     `form:"tags" json:"tags" binding:"omitempty"`             // 标签过滤
	FileName  string     `form:"file_name" json:"file_name" binding:"omitempty"`   // 文件名过滤
}

// MatchRequest 职位匹配请求
// resume_text和report_id二选一：前者直接比较文本，后者使用已归档的简历
type MatchRequest struct {
	ResumeText     string `json:"resume_text" binding:"omitempty"`    // 简历文本
	ReportID       string `json:"report_id" binding:"omitempty"`      // 报告ID
	JobDescription string `json:"job_description" binding:"required"` // 职位描述文本
}
