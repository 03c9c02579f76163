package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fyerfyer/resume-analyzer/internal/analyzer"
	"github.com/fyerfyer/resume-analyzer/internal/cache"
	"github.com/fyerfyer/resume-analyzer/internal/document"
	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/fyerfyer/resume-analyzer/internal/repository"
	"github.com/fyerfyer/resume-analyzer/pkg/storage"
	"github.com/fyerfyer/resume-analyzer/pkg/taskqueue"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 缓存键前缀
const analyzeCachePrefix = "analyze"

// AnalysisResult 一次简历分析的完整结果
type AnalysisResult struct {
	ReportID string                 `json:"report_id"` // 报告ID（持久化后有效）
	Score    int                    `json:"score"`     // 简历分数 [0,100]
	Signals  *analyzer.SignalReport `json:"signals"`   // 信号报告
}

// AnalyzerService 简历分析服务
// 负责协调文件归档、文本解析、信号计算、反馈和评分
type AnalyzerService struct {
	storage       storage.Storage             // 文件存储服务
	extractor     *analyzer.Extractor         // 特征提取器
	calculator    *analyzer.Calculator        // 信号计算器
	feedback      *analyzer.FeedbackEngine    // 反馈规则引擎
	scorer        *analyzer.Scorer            // 评分聚合器
	repo          repository.ReportRepository // 报告元数据存储
	statusManager *ReportStatusManager        // 报告状态管理器
	cache         cache.Cache                 // 分析结果缓存
	cacheTTL      time.Duration               // 缓存过期时间
	taskQueue     taskqueue.Queue             // 任务队列
	asyncEnabled  bool                        // 是否启用异步处理
	timeout       time.Duration               // 处理超时时间
	logger        *logrus.Logger              // 日志记录器
}

// AnalyzerOption 分析服务配置选项
type AnalyzerOption func(*AnalyzerService)

// NewAnalyzerService 创建一个新的简历分析服务
func NewAnalyzerService(
	storage storage.Storage,
	extractor *analyzer.Extractor,
	calculator *analyzer.Calculator,
	feedback *analyzer.FeedbackEngine,
	scorer *analyzer.Scorer,
	opts ...AnalyzerOption,
) *AnalyzerService {
	srv := &AnalyzerService{
		storage:      storage,
		extractor:    extractor,
		calculator:   calculator,
		feedback:     feedback,
		scorer:       scorer,
		cacheTTL:     time.Hour * 24,  // 默认缓存时间
		timeout:      time.Minute * 2, // 默认超时时间
		logger:       logrus.New(),    // 默认日志记录器
		asyncEnabled: false,           // 默认不启用异步处理
	}

	// 应用配置选项
	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) AnalyzerOption {
	return func(s *AnalyzerService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache 设置分析结果缓存
func WithCache(c cache.Cache) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.cache = c
	}
}

// WithCacheTTL 设置缓存过期时间
func WithCacheTTL(ttl time.Duration) AnalyzerOption {
	return func(s *AnalyzerService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithReportRepository 设置报告仓储
func WithReportRepository(repo repository.ReportRepository) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.repo = repo
	}
}

// WithStatusManager 设置状态管理器
func WithStatusManager(manager *ReportStatusManager) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.statusManager = manager
	}
}

// WithTaskQueue 设置任务队列
func WithTaskQueue(queue taskqueue.Queue) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.taskQueue = queue
		s.asyncEnabled = queue != nil
	}
}

// WithAsyncProcessing 设置是否启用异步处理
func WithAsyncProcessing(enabled bool) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.asyncEnabled = enabled
	}
}

// WithTimeout 设置处理超时时间
func WithTimeout(timeout time.Duration) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.timeout = timeout
	}
}

// Init 初始化分析服务
// 确保必要的依赖都已设置
func (s *AnalyzerService) Init() error {
	if s.repo == nil {
		s.repo = repository.NewReportRepository()
	}

	if s.statusManager == nil {
		s.statusManager = NewReportStatusManager(s.repo, s.logger)
	}

	return nil
}

// AnalyzeText 分析简历文本并持久化报告
// 相同文本的重复分析命中缓存，不会重新计算
func (s *AnalyzerService) AnalyzeText(ctx context.Context, text string) (*AnalysisResult, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, models.ErrEmptyDocument
	}

	signals, score, err := s.analyzeCore(text)
	if err != nil {
		return nil, err
	}

	// 持久化报告记录
	reportID := uuid.New().String()
	signalsJSON, err := json.Marshal(signals)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signals: %w", err)
	}

	report := &models.AnalysisReport{
		ID:      reportID,
		Source:  models.SourceText,
		Status:  models.ReportStatusCompleted,
		Score:   score,
		Signals: signalsJSON,
	}
	now := time.Now()
	report.ProcessedAt = &now

	if err := s.repo.Create(report); err != nil {
		return nil, fmt.Errorf("failed to save analysis report: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"report_id": reportID,
		"score":     score,
	}).Info("Resume text analyzed successfully")

	return &AnalysisResult{
		ReportID: reportID,
		Score:    score,
		Signals:  signals,
	}, nil
}

// AnalyzeUpload 接收上传的简历文件
// 文件先归档到存储，然后根据配置同步分析或入队异步处理
func (s *AnalyzerService) AnalyzeUpload(ctx context.Context, reader io.Reader, filename string) (*models.AnalysisReport, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	// 检查文件类型是否受支持
	if document.DetectContentType(filename) == document.Unknown {
		return nil, document.ErrUnsupportedType
	}

	// 归档文件
	fileInfo, err := s.storage.Save(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume file: %w", err)
	}

	fileType := strings.TrimPrefix(filepath.Ext(filename), ".")

	// 创建待处理报告记录
	report := &models.AnalysisReport{
		ID:       uuid.New().String(),
		FileName: filename,
		FileType: fileType,
		FilePath: fileInfo.Path,
		FileSize: fileInfo.Size,
		Source:   models.SourceUpload,
	}

	if err := s.statusManager.MarkAsPending(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report record: %w", err)
	}

	// 异步处理：入队后立即返回
	if s.asyncEnabled && s.taskQueue != nil {
		payload := taskqueue.ResumeAnalyzePayload{
			FilePath: fileInfo.Path,
			FileName: filename,
			FileType: fileType,
			FileID:   fileInfo.ID,
		}

		taskID, err := s.taskQueue.Enqueue(ctx, taskqueue.TaskResumeAnalyze, report.ID, payload)
		if err != nil {
			s.failReport(ctx, report.ID, fmt.Sprintf("failed to enqueue analysis task: %v", err))
			return nil, fmt.Errorf("failed to enqueue analysis task: %w", err)
		}

		report.TaskID = taskID
		if err := s.repo.Update(report); err != nil {
			s.logger.WithError(err).Warn("Failed to attach task ID to report")
		}

		s.logger.WithFields(logrus.Fields{
			"report_id": report.ID,
			"task_id":   taskID,
		}).Info("Resume analysis task enqueued")

		return report, nil
	}

	// 同步处理
	if err := s.ProcessFile(ctx, report.ID, fileInfo.ID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(report.ID)
}

// ProcessFile 处理已归档的简历文件
// 从存储读取文件、解析文本并完成分析，更新报告状态
func (s *AnalyzerService) ProcessFile(ctx context.Context, reportID string, fileID string) error {
	if err := s.Init(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.repo.GetByID(reportID)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	if err := s.statusManager.MarkAsProcessing(ctx, reportID); err != nil {
		s.logger.WithError(err).Warn("Failed to mark report as processing")
		// 继续处理，不中断
	}

	// 解析文件内容
	text, err := s.parseFile(fileID, report.FileName)
	if err != nil {
		s.failReport(ctx, reportID, fmt.Sprintf("failed to parse resume: %v", err))
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		s.failReport(ctx, reportID, models.ErrEmptyDocument.Error())
		return models.ErrEmptyDocument
	}

	// 分析文本
	signals, score, err := s.analyzeCore(text)
	if err != nil {
		s.failReport(ctx, reportID, fmt.Sprintf("failed to analyze resume: %v", err))
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	signalsJSON, err := json.Marshal(signals)
	if err != nil {
		s.failReport(ctx, reportID, fmt.Sprintf("failed to marshal signals: %v", err))
		return fmt.Errorf("failed to marshal signals: %w", err)
	}

	if err := s.statusManager.MarkAsCompleted(ctx, reportID, score, signalsJSON); err != nil {
		return fmt.Errorf("failed to mark report as completed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"report_id": reportID,
		"score":     score,
	}).Info("Resume file analyzed successfully")

	return nil
}

// GetReport 获取分析报告
func (s *AnalyzerService) GetReport(ctx context.Context, reportID string) (*models.AnalysisReport, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	return s.repo.GetByID(reportID)
}

// GetReportStatus 获取报告处理状态
func (s *AnalyzerService) GetReportStatus(ctx context.Context, reportID string) (models.ReportStatus, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	return s.statusManager.GetStatus(ctx, reportID)
}

// ListReports 获取报告列表
func (s *AnalyzerService) ListReports(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.AnalysisReport, int64, error) {
	if err := s.Init(); err != nil {
		return nil, 0, err
	}

	return s.statusManager.ListReports(ctx, offset, limit, filters)
}

// DeleteReport 删除报告及其归档文件
func (s *AnalyzerService) DeleteReport(ctx context.Context, reportID string) error {
	if err := s.Init(); err != nil {
		return err
	}

	report, err := s.repo.GetByID(reportID)
	if err != nil {
		return err
	}

	// 删除归档文件（仅上传来源的报告有文件）
	if report.Source == models.SourceUpload && report.FilePath != "" {
		fileID := strings.TrimSuffix(filepath.Base(report.FilePath), filepath.Ext(report.FilePath))
		if err := s.storage.Delete(fileID); err != nil {
			// 文件可能已被删除，记录错误但不中断流程
			s.logger.WithError(err).Warn("Failed to delete archived resume file")
		}
	}

	// 删除相关任务
	if s.taskQueue != nil {
		tasks, err := s.taskQueue.GetTasksByReport(ctx, reportID)
		if err == nil && len(tasks) > 0 {
			for _, task := range tasks {
				if err := s.taskQueue.DeleteTask(ctx, task.ID); err != nil {
					s.logger.WithError(err).WithField("task_id", task.ID).Warn("Failed to delete report task")
				}
			}
		}
	}

	if err := s.statusManager.DeleteReport(ctx, reportID); err != nil {
		return fmt.Errorf("failed to delete report record: %w", err)
	}

	s.logger.WithField("report_id", reportID).Info("Report deleted successfully")
	return nil
}

// GetReportTasks 获取报告相关的任务
func (s *AnalyzerService) GetReportTasks(ctx context.Context, reportID string) ([]*taskqueue.Task, error) {
	if !s.asyncEnabled || s.taskQueue == nil {
		return nil, errors.New("async processing not enabled")
	}

	return s.taskQueue.GetTasksByReport(ctx, reportID)
}

// GetStatusManager 返回报告状态管理器实例
func (s *AnalyzerService) GetStatusManager() *ReportStatusManager {
	return s.statusManager
}

// GetTaskQueue 返回任务队列实例
func (s *AnalyzerService) GetTaskQueue() taskqueue.Queue {
	return s.taskQueue
}

// analyzeCore 执行简历文本分析的核心流程
// 缓存以文本内容哈希为键，相同文本直接返回缓存结果
func (s *AnalyzerService) analyzeCore(text string) (*analyzer.SignalReport, int, error) {
	// 1. 尝试命中缓存
	cacheKey := ""
	if s.cache != nil {
		cacheKey = cache.ContentHashKey(analyzeCachePrefix, text)
		if cached, found, err := s.cache.Get(cacheKey); err == nil && found {
			var entry cachedAnalysis
			if err := json.Unmarshal([]byte(cached), &entry); err == nil {
				s.logger.Debug("Analysis cache hit")
				return entry.Signals, entry.Score, nil
			}
		}
	}

	// 2. 特征提取
	features, err := s.extractor.Extract(text)
	if err != nil {
		return nil, 0, err
	}

	// 3. 信号计算
	signals := s.calculator.Calculate(features)

	// 4. 反馈建议
	signals.Feedback = s.feedback.Evaluate(signals)

	// 5. 评分
	score := s.scorer.Score(signals)

	// 6. 写入缓存
	if s.cache != nil && cacheKey != "" {
		entry := cachedAnalysis{Signals: signals, Score: score}
		if data, err := json.Marshal(entry); err == nil {
			if err := s.cache.Set(cacheKey, string(data), s.cacheTTL); err != nil {
				s.logger.WithError(err).Warn("Failed to cache analysis result")
			}
		}
	}

	return signals, score, nil
}

// cachedAnalysis 缓存中的分析结果条目
type cachedAnalysis struct {
	Signals *analyzer.SignalReport `json:"signals"`
	Score   int                    `json:"score"`
}

// parseFile 从存储读取文件并解析为文本
func (s *AnalyzerService) parseFile(fileID string, filename string) (string, error) {
	reader, err := s.storage.Get(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file from storage: %w", err)
	}
	defer reader.Close()

	parser, err := document.ParserFactory(filename)
	if err != nil {
		return "", err
	}

	return parser.ParseReader(reader, filename)
}

// failReport 将报告标记为失败状态
func (s *AnalyzerService) failReport(ctx context.Context, reportID string, errorMsg string) {
	if s.statusManager == nil {
		s.logger.Error("Cannot mark report as failed: status manager not initialized")
		return
	}

	if err := s.statusManager.MarkAsFailed(ctx, reportID, errorMsg); err != nil {
		s.logger.WithFields(logrus.Fields{
			"report_id": reportID,
			"error":     err,
		}).Error("Failed to mark report as failed")
	}
}
