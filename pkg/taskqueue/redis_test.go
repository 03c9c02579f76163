package taskqueue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisTest 设置一个miniredis实例用于测试
// 返回Redis地址和一个清理函数
func setupRedisTest(t *testing.T) (string, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	return mr.Addr(), func() {
		mr.Close()
	}
}

// newTestQueue 创建基于miniredis的测试队列
func newTestQueue(t *testing.T) (Queue, func()) {
	redisAddr, cleanup := setupRedisTest(t)

	cfg := &Config{
		RedisAddr:   redisAddr,
		Concurrency: 2,
		RetryLimit:  2,
		RetryDelay:  time.Second,
	}

	queue, err := NewRedisQueue(cfg)
	require.NoError(t, err)

	return queue, func() {
		queue.Close()
		cleanup()
	}
}

// TestNewRedisQueue 测试创建Redis队列实例
func TestNewRedisQueue(t *testing.T) {
	redisAddr, cleanup := setupRedisTest(t)
	defer cleanup()

	cfg := &Config{
		RedisAddr:   redisAddr,
		Concurrency: 2,
		RetryLimit:  2,
		RetryDelay:  time.Second,
	}

	queue, err := NewRedisQueue(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, queue)

	err = queue.Close()
	assert.NoError(t, err)
}

// TestRedisQueue_Enqueue 测试队列入队功能
func TestRedisQueue_Enqueue(t *testing.T) {
	queue, cleanup := newTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	payload := &ResumeAnalyzePayload{
		FilePath: "/path/to/resume.pdf",
		FileName: "resume.pdf",
		FileType: "pdf",
	}

	// 测试基本入队
	taskID, err := queue.Enqueue(ctx, TaskResumeAnalyze, "report-123", payload)
	assert.NoError(t, err)
	assert.NotEmpty(t, taskID)

	// 验证任务已入队
	task, err := queue.GetTask(ctx, taskID)
	assert.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, TaskResumeAnalyze, task.Type)
	assert.Equal(t, "report-123", task.ReportID)
	assert.Equal(t, StatusPending, task.Status)
	assert.NotNil(t, task.Payload)
}

// TestRedisQueue_EnqueueIn 测试延时入队功能
func TestRedisQueue_EnqueueIn(t *testing.T) {
	queue, cleanup := newTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	payload := &ResumeAnalyzePayload{
		FilePath: "/path/to/resume.pdf",
		FileName: "resume.pdf",
		FileType: "pdf",
	}

	// 测试延时入队
	taskID, err := queue.EnqueueIn(ctx, TaskResumeAnalyze, "report-123", payload, time.Second)
	assert.NoError(t, err)
	assert.NotEmpty(t, taskID)

	// 验证任务已入队
	task, err := queue.GetTask(ctx, taskID)
	assert.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, TaskResumeAnalyze, task.Type)
	assert.Equal(t, StatusPending, task.Status)
}

// TestRedisQueue_GetTasksByReport 测试获取报告相关任务
func TestRedisQueue_GetTasksByReport(t *testing.T) {
	queue, cleanup := newTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	reportID := "report-456"

	// 为同一个报告入队多个任务
	payloads := []interface{}{
		&ResumeAnalyzePayload{
			FilePath: "/path/to/resume.pdf",
			FileName: "resume.pdf",
			FileType: "pdf",
		},
		&JobMatchPayload{
			ReportID:       reportID,
			JobDescription: "Looking for a Go developer with Redis experience.",
		},
	}

	taskTypes := []TaskType{
		TaskResumeAnalyze,
		TaskJobMatch,
	}

	for i, payload := range payloads {
		_, err := queue.Enqueue(ctx, taskTypes[i], reportID, payload)
		require.NoError(t, err)
	}

	// 获取报告相关的任务
	tasks, err := queue.GetTasksByReport(ctx, reportID)
	assert.NoError(t, err)
	assert.Equal(t, len(payloads), len(tasks))

	// 验证所有任务都关联到正确的报告
	for _, task := range tasks {
		assert.Equal(t, reportID, task.ReportID)
	}

	// 测试获取不存在报告的任务
	emptyTasks, err := queue.GetTasksByReport(ctx, "non-existent")
	assert.NoError(t, err)
	assert.Empty(t, emptyTasks)
}

// TestRedisQueue_UpdateTaskStatus 测试更新任务状态
func TestRedisQueue_UpdateTaskStatus(t *testing.T) {
	queue, cleanup := newTestQueue(t)
	defer cleanup()

	ctx := context.Background()

	payload := &ResumeAnalyzePayload{
		FilePath: "/path/to/resume.pdf",
		FileName: "resume.pdf",
		FileType: "pdf",
	}

	taskID, err := queue.Enqueue(ctx, TaskResumeAnalyze, "report-789", payload)
	require.NoError(t, err)

	// 更新任务状态到处理中
	err = queue.UpdateTaskStatus(ctx, taskID, StatusProcessing, nil, "")
	assert.NoError(t, err)

	// 验证状态已更新
	task, err := queue.GetTask(ctx, taskID)
	assert.NoError(t, err)
	assert.Equal(t, StatusProcessing, task.Status)
	assert.NotNil(t, task.StartedAt)

	// 更新任务状态到已完成，带结果
	result := &ResumeAnalyzeResult{
		ReportID: "report-789",
		Score:    85,
	}
	err = queue.UpdateTaskStatus(ctx, taskID, StatusCompleted, result, "")
	assert.NoError(t, err)

	// 验证状态和结果已更新
	task, err = queue.GetTask(ctx, taskID)
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)
	assert.NotEmpty(t, task.Result)

	// 验证结果可以反序列化
	var parsed ResumeAnalyzeResult
	err = UnmarshalPayload(task.Result, &parsed)
	assert.NoError(t, err)
	assert.Equal(t, 85, parsed.Score)

	// 测试更新到失败状态
	failTaskID, err := queue.Enqueue(ctx, TaskResumeAnalyze, "report-789", payload)
	require.NoError(t, err)

	errorMsg := "failed to extract text from PDF"
	err = queue.UpdateTaskStatus(ctx, failTaskID, StatusFailed, nil, errorMsg)
	assert.NoError(t, err)

	// 验证失败状态
	failTask, err := queue.GetTask(ctx, failTaskID)
	assert.NoError(t, err)
	assert.Equal(t, StatusFailed, failTask.Status)
	assert.Equal(t, errorMsg, failTask.Error)
	assert.NotNil(t, failTask.CompletedAt)
}

// TestRedisQueue_DeleteTask 测试删除任务
func TestRedisQueue_DeleteTask(t *testing.T) {
	queue, cleanup := newTestQueue(t)
	defer cleanup()

	ctx := context.Background()

	payload := &ResumeAnalyzePayload{
		FilePath: "/path/to/resume.pdf",
		FileName: "resume.pdf",
		FileType: "pdf",
	}

	reportID := "report-delete-test"
	taskID, err := queue.Enqueue(ctx, TaskResumeAnalyze, reportID, payload)
	require.NoError(t, err)

	// 确认任务和报告关联存在
	tasks, err := queue.GetTasksByReport(ctx, reportID)
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)

	// 删除任务
	err = queue.DeleteTask(ctx, taskID)
	assert.NoError(t, err)

	// 验证任务已被删除
	_, err = queue.GetTask(ctx, taskID)
	assert.Error(t, err)
	assert.Equal(t, ErrTaskNotFound, err)

	// 验证报告关联也被删除
	tasks, err = queue.GetTasksByReport(ctx, reportID)
	assert.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestRedisQueue_NotifyTaskUpdate 测试任务更新通知
func TestRedisQueue_NotifyTaskUpdate(t *testing.T) {
	queue, cleanup := newTestQueue(t)
	defer cleanup()

	ctx := context.Background()

	taskID, err := queue.Enqueue(ctx, TaskResumeAnalyze, "report-notify", &ResumeAnalyzePayload{})
	require.NoError(t, err)

	// 测试通知更新
	err = queue.NotifyTaskUpdate(ctx, taskID)
	assert.NoError(t, err)
}

// TestTaskInfo 测试TaskInfo生成
func TestTaskInfo(t *testing.T) {
	now := time.Now()
	startedAt := now.Add(-5 * time.Minute)
	completedAt := now.Add(-1 * time.Minute)

	task := &Task{
		ID:          "task-123",
		Type:        TaskResumeAnalyze,
		ReportID:    "report-123",
		Status:      StatusCompleted,
		Error:       "",
		CreatedAt:   now.Add(-10 * time.Minute),
		UpdatedAt:   now,
		StartedAt:   &startedAt,
		CompletedAt: &completedAt,
		Attempts:    1,
		MaxRetries:  3,
	}

	info := NewTaskInfo(task)

	// 验证TaskInfo包含正确信息
	assert.Equal(t, task.ID, info.ID)
	assert.Equal(t, task.Type, info.Type)
	assert.Equal(t, task.ReportID, info.ReportID)
	assert.Equal(t, task.Status, info.Status)
	assert.Equal(t, task.Error, info.Error)
	assert.Equal(t, task.CreatedAt, info.CreatedAt)
	assert.Equal(t, task.StartedAt, info.StartedAt)
	assert.Equal(t, task.CompletedAt, info.CompletedAt)
}
