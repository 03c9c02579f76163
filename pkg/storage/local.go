package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrFileNotFound 归档中不存在请求的简历文件
var ErrFileNotFound = errors.New("resume file not found")

// LocalStorage 本地简历归档
// 归档文件按 年/月/<ID><扩展名> 布局存放，ID在归档时生成，
// 分析报告通过ID回读原始简历
type LocalStorage struct {
	basePath string // 归档根目录
}

// LocalConfig 本地归档配置
type LocalConfig struct {
	Path string // 归档根目录路径
}

// NewLocalStorage 创建本地归档实例
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalStorage{
		basePath: absPath,
	}, nil
}

// Save 将上传的简历归档并返回文件信息
func (s *LocalStorage) Save(reader io.Reader, filename string) (FileInfo, error) {
	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(filename))

	now := time.Now()
	relDir := filepath.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", now.Month()))
	dirPath := filepath.Join(s.basePath, relDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return FileInfo{}, fmt.Errorf("failed to create archive directory: %w", err)
	}

	// 先写临时文件再改名，归档中不会出现写到一半的文件
	tmp, err := os.CreateTemp(dirPath, "upload-*.tmp")
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return FileInfo{}, fmt.Errorf("failed to write resume file: %w", err)
	}

	finalPath := filepath.Join(dirPath, id+ext)
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		os.Remove(tmp.Name())
		return FileInfo{}, fmt.Errorf("failed to archive resume file: %w", err)
	}

	return FileInfo{
		ID:       id,
		Name:     filename,
		Size:     size,
		MimeType: resumeMimeType(filename),
		Path:     filepath.Join(relDir, id+ext),
	}, nil
}

// Get 读取归档中的简历文件
func (s *LocalStorage) Get(id string) (io.ReadCloser, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume file: %w", err)
	}

	return file, nil
}

// Delete 从归档中删除简历文件
func (s *LocalStorage) Delete(id string) error {
	path, err := s.resolve(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete resume file: %w", err)
	}

	return nil
}

// List 列出归档中的所有简历文件
func (s *LocalStorage) List() ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*", "*", "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list resume files: %w", err)
	}

	files := make([]FileInfo, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		name := filepath.Base(path)
		// 写入中断残留的临时文件不属于归档
		if strings.HasSuffix(name, ".tmp") {
			continue
		}

		relPath, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return nil, err
		}

		files = append(files, FileInfo{
			ID:       strings.TrimSuffix(name, filepath.Ext(name)),
			Name:     name,
			Size:     info.Size(),
			MimeType: resumeMimeType(name),
			Path:     relPath,
		})
	}

	return files, nil
}

// Exists 检查归档中是否存在指定ID的简历文件
func (s *LocalStorage) Exists(id string) (bool, error) {
	_, err := s.resolve(id)
	if errors.Is(err, ErrFileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// resolve 根据ID定位归档文件的绝对路径
// 归档时的扩展名由原始文件名决定，查找时按ID前缀匹配
func (s *LocalStorage) resolve(id string) (string, error) {
	if id == "" {
		return "", ErrFileNotFound
	}

	matches, err := filepath.Glob(filepath.Join(s.basePath, "*", "*", id+"*"))
	if err != nil {
		return "", fmt.Errorf("failed to locate resume file: %w", err)
	}

	for _, path := range matches {
		name := filepath.Base(path)
		if strings.TrimSuffix(name, filepath.Ext(name)) == id {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrFileNotFound, id)
}

// resumeMimeType 根据扩展名判断简历文件的MIME类型
func resumeMimeType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt", ".text":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
