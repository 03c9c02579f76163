package models

import "errors"

var (
	// ErrReportNotFound 分析报告不存在错误
	ErrReportNotFound = errors.New("analysis report not found")

	// ErrEmptyDocument 空文档错误
	// 空白输入在分析前被拒绝，作为用户警告而非内部失败
	ErrEmptyDocument = errors.New("document text is empty")

	// ErrInvalidReportStatus 无效的报告状态错误
	ErrInvalidReportStatus = errors.New("invalid report status")
)
