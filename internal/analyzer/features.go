package analyzer

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/resume-analyzer/internal/nlp"
)

// FeatureSet 从简历文本中提取的语言特征集合
// 由Extract一次性创建，创建后不再修改
type FeatureSet struct {
	Sentences    []string     // 按顺序排列的句子列表
	AllWords     []string     // 所有字母词（小写）
	ContentWords []string     // 内容词：字母词且非停用词（小写）
	VerbLemmas   []string     // 非停用词动词的词元列表
	Entities     []nlp.Entity // 命名实体(文本, 标签)对
	BulletCount  int          // 项目符号行数量
	LineCount    int          // 非空行数量
	Readability  float64      // Flesch易读性分数
	GradeLevel   float64      // Flesch-Kincaid年级水平
}

// 识别为项目符号的行首标记
var bulletMarkers = []string{"-", "*", "•", "·"}

// Extractor 文本特征提取器
// 依赖NLP工具包完成分词、分句、实体识别和可读性计算
type Extractor struct {
	toolkit nlp.Toolkit // NLP工具包
}

// NewExtractor 创建特征提取器
func NewExtractor(toolkit nlp.Toolkit) *Extractor {
	return &Extractor{
		toolkit: toolkit,
	}
}

// Extract 从原始文本中提取特征集合
// 空白文本返回全零的特征集合，不调用工具包
func (e *Extractor) Extract(text string) (*FeatureSet, error) {
	fs := &FeatureSet{
		Sentences:    []string{},
		AllWords:     []string{},
		ContentWords: []string{},
		VerbLemmas:   []string{},
		Entities:     []nlp.Entity{},
	}

	if strings.TrimSpace(text) == "" {
		return fs, nil
	}

	// 1. 分词和词性标注
	tokens, err := e.toolkit.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize document: %w", err)
	}

	for _, tok := range tokens {
		if !tok.IsAlpha {
			continue
		}
		fs.AllWords = append(fs.AllWords, tok.Lower)
		if !tok.IsStop {
			fs.ContentWords = append(fs.ContentWords, tok.Lower)
			if tok.IsVerb() {
				fs.VerbLemmas = append(fs.VerbLemmas, tok.Lemma)
			}
		}
	}

	// 2. 分句
	sentences, err := e.toolkit.Sentences(text)
	if err != nil {
		return nil, fmt.Errorf("failed to segment document: %w", err)
	}
	fs.Sentences = sentences

	// 3. 命名实体识别
	entities, err := e.toolkit.Entities(text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}
	fs.Entities = entities

	// 4. 可读性分数
	fs.Readability, err = e.toolkit.FleschReadingEase(text)
	if err != nil {
		return nil, fmt.Errorf("failed to compute readability: %w", err)
	}
	fs.GradeLevel, err = e.toolkit.FleschKincaidGrade(text)
	if err != nil {
		return nil, fmt.Errorf("failed to compute grade level: %w", err)
	}

	// 5. 行和项目符号统计
	fs.BulletCount, fs.LineCount = countLines(text)

	return fs, nil
}

// countLines 统计非空行数量和项目符号行数量
func countLines(text string) (bullets, lines int) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines++
		for _, marker := range bulletMarkers {
			if strings.HasPrefix(trimmed, marker) {
				bullets++
				break
			}
		}
	}
	return bullets, lines
}
