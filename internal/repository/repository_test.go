package repository

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/fyerfyer/resume-analyzer/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建测试用的临时sqlite数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.AnalysisReport{}, &models.MatchRecord{}))
	return db
}

// newTestReport 构造测试报告记录
func newTestReport(status models.ReportStatus) *models.AnalysisReport {
	return &models.AnalysisReport{
		ID:       uuid.New().String(),
		FileName: "resume.pdf",
		FileType: "pdf",
		Source:   models.SourceUpload,
		Status:   status,
	}
}

func TestReportRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepositoryWithDB(db)

	t.Run("CreateAndGet", func(t *testing.T) {
		report := newTestReport(models.ReportStatusPending)
		require.NoError(t, repo.Create(report))

		got, err := repo.GetByID(report.ID)
		require.NoError(t, err)
		assert.Equal(t, report.ID, got.ID)
		assert.Equal(t, models.ReportStatusPending, got.Status)
		assert.False(t, got.UploadedAt.IsZero())
	})

	t.Run("CreateWithoutID", func(t *testing.T) {
		err := repo.Create(&models.AnalysisReport{})
		assert.Error(t, err)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetByID("no-such-report")
		assert.ErrorIs(t, err, models.ErrReportNotFound)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		report := newTestReport(models.ReportStatusPending)
		require.NoError(t, repo.Create(report))

		require.NoError(t, repo.UpdateStatus(report.ID, models.ReportStatusCompleted, ""))

		got, err := repo.GetByID(report.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusCompleted, got.Status)
		require.NotNil(t, got.ProcessedAt)
	})

	t.Run("UpdateStatusWithError", func(t *testing.T) {
		report := newTestReport(models.ReportStatusProcessing)
		require.NoError(t, repo.Create(report))

		require.NoError(t, repo.UpdateStatus(report.ID, models.ReportStatusFailed, "parse error"))

		got, err := repo.GetByID(report.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusFailed, got.Status)
		assert.Equal(t, "parse error", got.Error)
	})

	t.Run("UpdateResult", func(t *testing.T) {
		report := newTestReport(models.ReportStatusProcessing)
		require.NoError(t, repo.Create(report))

		signals, err := json.Marshal(map[string]interface{}{"total_words": 42})
		require.NoError(t, err)
		require.NoError(t, repo.UpdateResult(report.ID, 85, signals))

		got, err := repo.GetByID(report.ID)
		require.NoError(t, err)
		assert.Equal(t, 85, got.Score)
		assert.JSONEq(t, `{"total_words":42}`, string(got.Signals))
	})

	t.Run("Delete", func(t *testing.T) {
		report := newTestReport(models.ReportStatusCompleted)
		require.NoError(t, repo.Create(report))

		require.NoError(t, repo.Delete(report.ID))

		_, err := repo.GetByID(report.ID)
		assert.ErrorIs(t, err, models.ErrReportNotFound)
	})
}

func TestReportRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepositoryWithDB(db)

	// 构造三条不同状态和标签的记录
	first := newTestReport(models.ReportStatusCompleted)
	first.FileName = "backend_resume.pdf"
	first.Tags = "backend,go"
	first.UploadedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Create(first))

	second := newTestReport(models.ReportStatusPending)
	second.FileName = "frontend_resume.md"
	second.Tags = "frontend"
	second.UploadedAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, repo.Create(second))

	third := newTestReport(models.ReportStatusCompleted)
	third.FileName = "data_resume.txt"
	third.UploadedAt = time.Now()
	require.NoError(t, repo.Create(third))

	t.Run("All", func(t *testing.T) {
		reports, total, err := repo.List(0, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, reports, 3)
		// 按接收时间倒序
		assert.Equal(t, third.ID, reports[0].ID)
	})

	t.Run("FilterByStatus", func(t *testing.T) {
		reports, total, err := repo.List(0, 10, map[string]interface{}{
			"status": models.ReportStatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, r := range reports {
			assert.Equal(t, models.ReportStatusCompleted, r.Status)
		}
	})

	t.Run("FilterByTags", func(t *testing.T) {
		_, total, err := repo.List(0, 10, map[string]interface{}{
			"tags": "backend",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("FilterByFileName", func(t *testing.T) {
		_, total, err := repo.List(0, 10, map[string]interface{}{
			"file_name": "frontend",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("FilterByTimeRange", func(t *testing.T) {
		_, total, err := repo.List(0, 10, map[string]interface{}{
			"start_time": time.Now().Add(-90 * time.Minute),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("Pagination", func(t *testing.T) {
		reports, total, err := repo.List(0, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, reports, 2)

		reports, _, err = repo.List(2, 2, nil)
		require.NoError(t, err)
		assert.Len(t, reports, 1)
	})
}

func TestMatchRepository(t *testing.T) {
	db := setupTestDB(t)
	reportRepo := NewReportRepositoryWithDB(db)
	matchRepo := NewMatchRepositoryWithDB(db)

	report := newTestReport(models.ReportStatusCompleted)
	require.NoError(t, reportRepo.Create(report))

	t.Run("CreateAndList", func(t *testing.T) {
		keywords, err := json.Marshal([]string{"python", "aws"})
		require.NoError(t, err)

		record := &models.MatchRecord{
			ReportID:        report.ID,
			Similarity:      72.5,
			MissingKeywords: keywords,
		}
		require.NoError(t, matchRepo.Create(record))
		assert.NotZero(t, record.ID)

		records, err := matchRepo.ListByReport(report.ID, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 72.5, records[0].Similarity)
	})

	t.Run("ListLimit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, matchRepo.Create(&models.MatchRecord{
				ReportID:   report.ID,
				Similarity: float64(i * 10),
			}))
		}

		records, err := matchRepo.ListByReport(report.ID, 3)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("CascadeDelete", func(t *testing.T) {
		require.NoError(t, reportRepo.Delete(report.ID))

		records, err := matchRepo.ListByReport(report.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
