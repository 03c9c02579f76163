package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fyerfyer/resume-analyzer/internal/analyzer"
	"github.com/fyerfyer/resume-analyzer/internal/cache"
	"github.com/fyerfyer/resume-analyzer/internal/document"
	"github.com/fyerfyer/resume-analyzer/internal/matcher"
	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/fyerfyer/resume-analyzer/internal/nlp"
	"github.com/fyerfyer/resume-analyzer/internal/repository"
	"github.com/fyerfyer/resume-analyzer/pkg/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 测试用的简历文本
const sampleResume = `Senior Software Engineer

- Built distributed billing services in Go and scaled them to millions of requests.
- Designed event pipelines and deployed them on kubernetes clusters.
- Led a team of five engineers and mentored two junior developers.
- Reduced infrastructure costs by forty percent through capacity planning.`

// testEnv 服务层测试环境
type testEnv struct {
	service      *AnalyzerService
	matchService *MatchService
	storage      storage.Storage
	repo         repository.ReportRepository
	cache        cache.Cache
}

// setupServiceTest 搭建完整的服务层测试环境
// 使用临时sqlite数据库、本地临时目录存储和内存缓存
func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AnalysisReport{}, &models.MatchRecord{}))

	fileStorage, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	memCache, err := cache.NewCache(cache.DefaultConfig())
	require.NoError(t, err)

	toolkit, err := nlp.New()
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	repo := repository.NewReportRepositoryWithDB(db)
	matchRepo := repository.NewMatchRepositoryWithDB(db)
	statusManager := NewReportStatusManager(repo, log)

	service := NewAnalyzerService(
		fileStorage,
		analyzer.NewExtractor(toolkit),
		analyzer.NewCalculator(analyzer.DefaultCalculatorConfig()),
		analyzer.NewFeedbackEngine(analyzer.DefaultThresholds()),
		analyzer.NewScorer(analyzer.DefaultScoreConfig()),
		WithReportRepository(repo),
		WithStatusManager(statusManager),
		WithCache(memCache),
		WithLogger(log),
	)

	matchService := NewMatchService(
		matcher.New(matcher.DefaultConfig()),
		fileStorage,
		repo,
		matchRepo,
		log,
	)

	return &testEnv{
		service:      service,
		matchService: matchService,
		storage:      fileStorage,
		repo:         repo,
		cache:        memCache,
	}
}

func TestAnalyzeText(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		result, err := env.service.AnalyzeText(ctx, sampleResume)
		require.NoError(t, err)

		assert.NotEmpty(t, result.ReportID)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
		require.NotNil(t, result.Signals)
		assert.Greater(t, result.Signals.TotalWords, 0)
		assert.Equal(t, 4, result.Signals.BulletCount)
		assert.NotEmpty(t, result.Signals.Feedback)

		// 报告被持久化为已完成状态
		report, err := env.repo.GetByID(result.ReportID)
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusCompleted, report.Status)
		assert.Equal(t, models.SourceText, report.Source)
		assert.Equal(t, result.Score, report.Score)
		assert.NotNil(t, report.ProcessedAt)
	})

	t.Run("EmptyText", func(t *testing.T) {
		_, err := env.service.AnalyzeText(ctx, "   \n  ")
		assert.ErrorIs(t, err, models.ErrEmptyDocument)
	})

	t.Run("ResultCached", func(t *testing.T) {
		first, err := env.service.AnalyzeText(ctx, sampleResume)
		require.NoError(t, err)

		// 分析结果写入了内容哈希键
		key := cache.ContentHashKey("analyze", sampleResume)
		_, found, err := env.cache.Get(key)
		require.NoError(t, err)
		assert.True(t, found)

		// 相同文本重复分析得到相同结果
		second, err := env.service.AnalyzeText(ctx, sampleResume)
		require.NoError(t, err)
		assert.Equal(t, first.Score, second.Score)
		// 每次分析生成独立的报告记录
		assert.NotEqual(t, first.ReportID, second.ReportID)
	})
}

func TestAnalyzeUpload(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	t.Run("SyncProcessing", func(t *testing.T) {
		report, err := env.service.AnalyzeUpload(ctx, strings.NewReader(sampleResume), "resume.txt")
		require.NoError(t, err)

		assert.Equal(t, models.ReportStatusCompleted, report.Status)
		assert.Equal(t, models.SourceUpload, report.Source)
		assert.Equal(t, "resume.txt", report.FileName)
		assert.Greater(t, report.Score, 0)
		assert.NotEmpty(t, report.Signals)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := env.service.AnalyzeUpload(ctx, strings.NewReader("data"), "resume.docx")
		assert.ErrorIs(t, err, document.ErrUnsupportedType)
	})

	t.Run("EmptyFileMarkedFailed", func(t *testing.T) {
		report, err := env.service.AnalyzeUpload(ctx, strings.NewReader("   "), "empty.txt")
		assert.ErrorIs(t, err, models.ErrEmptyDocument)

		// 同步处理失败时返回错误，但报告记录保留失败状态
		if report == nil {
			reports, _, listErr := env.repo.List(0, 10, map[string]interface{}{"file_name": "empty.txt"})
			require.NoError(t, listErr)
			require.Len(t, reports, 1)
			assert.Equal(t, models.ReportStatusFailed, reports[0].Status)
		}
	})
}

func TestDeleteReport(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	report, err := env.service.AnalyzeUpload(ctx, strings.NewReader(sampleResume), "resume.txt")
	require.NoError(t, err)

	fileID := strings.TrimSuffix(filepath.Base(report.FilePath), filepath.Ext(report.FilePath))
	exists, err := env.storage.Exists(fileID)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, env.service.DeleteReport(ctx, report.ID))

	// 报告记录和归档文件都被删除
	_, err = env.repo.GetByID(report.ID)
	assert.ErrorIs(t, err, models.ErrReportNotFound)

	exists, err = env.storage.Exists(fileID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReportStatusManager(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	manager := env.service.GetStatusManager()
	require.NotNil(t, manager)

	t.Run("Lifecycle", func(t *testing.T) {
		report := &models.AnalysisReport{
			ID:     uuid.New().String(),
			Source: models.SourceUpload,
		}
		require.NoError(t, manager.MarkAsPending(ctx, report))

		status, err := manager.GetStatus(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusPending, status)

		require.NoError(t, manager.MarkAsProcessing(ctx, report.ID))
		require.NoError(t, manager.MarkAsCompleted(ctx, report.ID, 77, []byte(`{}`)))

		got, err := manager.GetReport(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusCompleted, got.Status)
		assert.Equal(t, 77, got.Score)
	})

	t.Run("InvalidTransition", func(t *testing.T) {
		report := &models.AnalysisReport{
			ID:     uuid.New().String(),
			Source: models.SourceUpload,
		}
		require.NoError(t, manager.MarkAsPending(ctx, report))
		require.NoError(t, manager.MarkAsProcessing(ctx, report.ID))

		// 处理中状态不允许再次进入处理中
		assert.Error(t, manager.MarkAsProcessing(ctx, report.ID))
	})

	t.Run("RetryAfterFailure", func(t *testing.T) {
		report := &models.AnalysisReport{
			ID:     uuid.New().String(),
			Source: models.SourceUpload,
		}
		require.NoError(t, manager.MarkAsPending(ctx, report))
		require.NoError(t, manager.MarkAsFailed(ctx, report.ID, "boom"))

		// 失败状态允许重试
		assert.NoError(t, manager.MarkAsProcessing(ctx, report.ID))
	})

	t.Run("ValidateStateTransition", func(t *testing.T) {
		assert.NoError(t, manager.ValidateStateTransition(models.ReportStatusPending, models.ReportStatusProcessing))
		assert.NoError(t, manager.ValidateStateTransition(models.ReportStatusFailed, models.ReportStatusProcessing))
		assert.Error(t, manager.ValidateStateTransition(models.ReportStatusCompleted, models.ReportStatusProcessing))
	})
}

func TestMatchService(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	jobText := "Looking for a senior engineer with Go, kubernetes and python experience."

	t.Run("MatchText", func(t *testing.T) {
		result, err := env.matchService.MatchText(ctx, sampleResume, jobText)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, result.Similarity, 0.0)
		assert.LessOrEqual(t, result.Similarity, 100.0)
		assert.Contains(t, result.MissingKeywords, "python")
	})

	t.Run("MatchTextEmpty", func(t *testing.T) {
		_, err := env.matchService.MatchText(ctx, "", jobText)
		assert.ErrorIs(t, err, models.ErrEmptyDocument)

		_, err = env.matchService.MatchText(ctx, sampleResume, " ")
		assert.ErrorIs(t, err, models.ErrEmptyDocument)
	})

	t.Run("MatchReport", func(t *testing.T) {
		report, err := env.service.AnalyzeUpload(ctx, strings.NewReader(sampleResume), "resume.txt")
		require.NoError(t, err)

		result, err := env.matchService.MatchReport(ctx, report.ID, jobText)
		require.NoError(t, err)
		assert.Greater(t, result.Similarity, 0.0)

		// 匹配记录写入历史
		history, err := env.matchService.MatchHistory(ctx, report.ID, 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, result.Similarity, history[0].Similarity)
	})

	t.Run("MatchReportMissing", func(t *testing.T) {
		_, err := env.matchService.MatchReport(ctx, "no-such-report", jobText)
		assert.ErrorIs(t, err, models.ErrReportNotFound)
	})
}
