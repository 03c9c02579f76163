package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/fyerfyer/resume-analyzer/internal/nlp"
)

// WordCount 单词及其出现次数
type WordCount struct {
	Word  string `json:"word"`  // 单词
	Count int    `json:"count"` // 出现次数
}

// WeakVerbHit 弱动词命中及其替换建议
type WeakVerbHit struct {
	Verb        string   `json:"verb"`        // 命中的弱动词词元
	Suggestions []string `json:"suggestions"` // 更有力的替换动词
}

// SignalReport 简历信号报告
// 由FeatureSet确定性地推导得出，无隐藏状态
type SignalReport struct {
	TotalWords          int           `json:"total_words"`           // 内容词总数
	TotalSentences      int           `json:"total_sentences"`       // 句子总数
	AvgSentenceLength   float64       `json:"avg_sentence_length"`   // 平均句长（词数）
	Readability         float64       `json:"readability"`           // Flesch易读性分数
	GradeLevel          float64       `json:"grade_level"`           // Flesch-Kincaid年级水平
	UniqueWordPercent   float64       `json:"unique_word_percent"`   // 词汇独特性百分比
	ActionVerbDensity   float64       `json:"action_verb_density"`   // 动作动词密度百分比
	BulletCount         int           `json:"bullet_count"`          // 项目符号行数量
	LineCount           int           `json:"line_count"`            // 非空行数量
	WeakVerbHits        []WeakVerbHit `json:"weak_verb_hits"`        // 弱动词命中（按动词去重）
	WeakVerbOccurrences int           `json:"weak_verb_occurrences"` // 弱动词出现总次数（不去重）
	CommonWords         []WordCount   `json:"common_words"`          // 最常见单词
	CommonVerbs         []WordCount   `json:"common_verbs"`          // 最常见动词
	Entities            []nlp.Entity  `json:"entities"`              // 命名实体列表
	Feedback            []string      `json:"feedback"`              // 改进建议列表
}

// CalculatorConfig 信号计算器配置
type CalculatorConfig struct {
	TopWords    int // 最常见单词数量
	TopVerbs    int // 最常见动词数量
	MaxEntities int // 报告中保留的实体数量上限
}

// DefaultCalculatorConfig 返回默认计算器配置
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		TopWords:    8,
		TopVerbs:    8,
		MaxEntities: 10,
	}
}

// Calculator 信号计算器
// 将特征集合转换为数值信号，是FeatureSet的纯函数
type Calculator struct {
	cfg CalculatorConfig
}

// NewCalculator 创建信号计算器
func NewCalculator(cfg CalculatorConfig) *Calculator {
	if cfg.TopWords <= 0 {
		cfg.TopWords = 8
	}
	if cfg.TopVerbs <= 0 {
		cfg.TopVerbs = 8
	}
	if cfg.MaxEntities <= 0 {
		cfg.MaxEntities = 10
	}
	return &Calculator{cfg: cfg}
}

// Calculate 由特征集合计算信号报告
// 所有比率在分母为零时回退为0，不会产生运行时错误
func (c *Calculator) Calculate(fs *FeatureSet) *SignalReport {
	report := &SignalReport{
		TotalWords:     len(fs.ContentWords),
		TotalSentences: len(fs.Sentences),
		Readability:    round2(fs.Readability),
		GradeLevel:     round2(fs.GradeLevel),
		BulletCount:    fs.BulletCount,
		LineCount:      fs.LineCount,
		Feedback:       []string{},
	}

	// 平均句长：各句的空白分隔词数之和 / 句子数
	if len(fs.Sentences) > 0 {
		totalWords := 0
		for _, s := range fs.Sentences {
			totalWords += len(strings.Fields(s))
		}
		report.AvgSentenceLength = round2(float64(totalWords) / float64(len(fs.Sentences)))
	}

	// 词汇独特性和动作动词密度，均以全部字母词为分母
	if len(fs.AllWords) > 0 {
		unique := make(map[string]struct{}, len(fs.AllWords))
		for _, w := range fs.AllWords {
			unique[w] = struct{}{}
		}
		total := float64(len(fs.AllWords))
		report.UniqueWordPercent = round2(float64(len(unique)) / total * 100)
		report.ActionVerbDensity = round2(float64(len(fs.VerbLemmas)) / total * 100)
	}

	// 弱动词命中与出现次数
	report.WeakVerbHits, report.WeakVerbOccurrences = findWeakVerbs(fs.VerbLemmas)

	// 最常见单词和动词
	report.CommonWords = mostCommon(fs.ContentWords, c.cfg.TopWords)
	report.CommonVerbs = mostCommon(fs.VerbLemmas, c.cfg.TopVerbs)

	// 实体列表截断
	report.Entities = fs.Entities
	if report.Entities == nil {
		report.Entities = []nlp.Entity{}
	}
	if len(report.Entities) > c.cfg.MaxEntities {
		report.Entities = report.Entities[:c.cfg.MaxEntities]
	}

	return report
}

// mostCommon 统计出现频率最高的前n个单词
// 频率相同时按首次出现顺序排列（稳定排序）
func mostCommon(words []string, n int) []WordCount {
	counts := make(map[string]int, len(words))
	firstSeen := make(map[string]int, len(words))

	for i, w := range words {
		if _, ok := counts[w]; !ok {
			firstSeen[w] = i
		}
		counts[w]++
	}

	result := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		result = append(result, WordCount{Word: w, Count: c})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return firstSeen[result[i].Word] < firstSeen[result[j].Word]
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
