package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyerfyer/resume-analyzer/internal/document"
	"github.com/fyerfyer/resume-analyzer/internal/matcher"
	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/fyerfyer/resume-analyzer/internal/repository"
	"github.com/fyerfyer/resume-analyzer/pkg/storage"
	"github.com/sirupsen/logrus"
)

// MatchService 职位匹配服务
// 负责将简历文本与职位描述进行比较并持久化匹配历史
type MatchService struct {
	matcher    *matcher.Matcher            // 匹配比较器
	storage    storage.Storage             // 文件存储服务
	reportRepo repository.ReportRepository // 报告仓储
	matchRepo  repository.MatchRepository  // 匹配记录仓储
	logger     *logrus.Logger              // 日志记录器
}

// NewMatchService 创建职位匹配服务
func NewMatchService(
	m *matcher.Matcher,
	store storage.Storage,
	reportRepo repository.ReportRepository,
	matchRepo repository.MatchRepository,
	logger *logrus.Logger,
) *MatchService {
	if logger == nil {
		logger = logrus.New()
	}

	return &MatchService{
		matcher:    m,
		storage:    store,
		reportRepo: reportRepo,
		matchRepo:  matchRepo,
		logger:     logger,
	}
}

// MatchText 比较简历文本与职位描述
func (s *MatchService) MatchText(ctx context.Context, resumeText, jobText string) (*matcher.MatchResult, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobText) == "" {
		return nil, models.ErrEmptyDocument
	}

	result := s.matcher.Match(resumeText, jobText)

	// 持久化匹配记录（不关联报告）
	if err := s.saveRecord("", result); err != nil {
		s.logger.WithError(err).Warn("Failed to save match record")
	}

	s.logger.WithField("similarity", result.Similarity).Info("Resume matched against job description")

	return result, nil
}

// MatchReport 将已归档的报告对应的简历与职位描述进行比较
// 简历文本从归档文件重新解析得到
func (s *MatchService) MatchReport(ctx context.Context, reportID string, jobText string) (*matcher.MatchResult, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, models.ErrEmptyDocument
	}

	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		return nil, err
	}

	resumeText, err := s.resumeTextOf(report)
	if err != nil {
		return nil, err
	}

	result := s.matcher.Match(resumeText, jobText)

	if err := s.saveRecord(reportID, result); err != nil {
		s.logger.WithError(err).Warn("Failed to save match record")
	}

	s.logger.WithFields(logrus.Fields{
		"report_id":  reportID,
		"similarity": result.Similarity,
	}).Info("Report matched against job description")

	return result, nil
}

// MatchHistory 获取报告的匹配历史
func (s *MatchService) MatchHistory(ctx context.Context, reportID string, limit int) ([]*models.MatchRecord, error) {
	return s.matchRepo.ListByReport(reportID, limit)
}

// resumeTextOf 还原报告对应的简历文本
func (s *MatchService) resumeTextOf(report *models.AnalysisReport) (string, error) {
	if report.Source != models.SourceUpload || report.FilePath == "" {
		return "", fmt.Errorf("report %s has no archived resume file", report.ID)
	}

	fileID := strings.TrimSuffix(filepath.Base(report.FilePath), filepath.Ext(report.FilePath))

	reader, err := s.storage.Get(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get archived resume: %w", err)
	}
	defer reader.Close()

	parser, err := document.ParserFactory(report.FileName)
	if err != nil {
		return "", err
	}

	return parser.ParseReader(reader, report.FileName)
}

// saveRecord 持久化匹配记录
func (s *MatchService) saveRecord(reportID string, result *matcher.MatchResult) error {
	if s.matchRepo == nil {
		return nil
	}

	keywordsJSON, err := json.Marshal(result.MissingKeywords)
	if err != nil {
		return fmt.Errorf("failed to marshal missing keywords: %w", err)
	}

	record := &models.MatchRecord{
		ReportID:        reportID,
		Similarity:      result.Similarity,
		MissingKeywords: keywordsJSON,
	}

	return s.matchRepo.Create(record)
}
