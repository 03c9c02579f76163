package matcher

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/fyerfyer/resume-analyzer/internal/nlp"
)

// Config 匹配器配置
type Config struct {
	MaxMissingKeywords int // 缺失关键词数量上限
	MinKeywordLength   int // 关键词最小长度
}

// DefaultConfig 返回默认匹配器配置
func DefaultConfig() Config {
	return Config{
		MaxMissingKeywords: 15,
		MinKeywordLength:   3,
	}
}

// MatchResult 简历与职位描述的匹配结果
type MatchResult struct {
	Similarity      float64  `json:"similarity"`       // 相似度分数，范围[0,100]
	MissingKeywords []string `json:"missing_keywords"` // 职位描述中出现但简历中缺失的关键词
}

// Matcher 职位匹配比较器
// 基于TF-IDF向量余弦相似度计算两篇文档的词汇重合度
type Matcher struct {
	cfg Config
}

// New 创建匹配器
func New(cfg Config) *Matcher {
	if cfg.MaxMissingKeywords <= 0 {
		cfg.MaxMissingKeywords = 15
	}
	if cfg.MinKeywordLength <= 0 {
		cfg.MinKeywordLength = 3
	}
	return &Matcher{cfg: cfg}
}

// Match 比较简历与职位描述
// 相似度与缺失关键词均由两篇文档确定性地推导得出
func (m *Matcher) Match(resumeText, jobText string) *MatchResult {
	resumeTokens := tokenize(resumeText)
	jobTokens := tokenize(jobText)

	return &MatchResult{
		Similarity:      round2(cosineSimilarity(resumeTokens, jobTokens) * 100),
		MissingKeywords: m.missingKeywords(resumeTokens, jobTokens),
	}
}

// missingKeywords 找出职位描述中出现但简历中缺失的关键词
// 只保留长度达标的非停用词字母词；
// 排序为确定性的：按职位描述中的词频降序，词频相同按字典序
func (m *Matcher) missingKeywords(resumeTokens, jobTokens []string) []string {
	resumeSet := make(map[string]struct{}, len(resumeTokens))
	for _, w := range resumeTokens {
		resumeSet[w] = struct{}{}
	}

	counts := make(map[string]int)
	for _, w := range jobTokens {
		if len(w) < m.cfg.MinKeywordLength || !isAlphabetic(w) || nlp.IsStopword(w) {
			continue
		}
		if _, ok := resumeSet[w]; ok {
			continue
		}
		counts[w]++
	}

	missing := make([]string, 0, len(counts))
	for w := range counts {
		missing = append(missing, w)
	}

	sort.Slice(missing, func(i, j int) bool {
		if counts[missing[i]] != counts[missing[j]] {
			return counts[missing[i]] > counts[missing[j]]
		}
		return missing[i] < missing[j]
	})

	if len(missing) > m.cfg.MaxMissingKeywords {
		missing = missing[:m.cfg.MaxMissingKeywords]
	}
	return missing
}

// cosineSimilarity 计算两篇文档TF-IDF向量的余弦相似度
// 词表排除英文停用词；IDF采用平滑公式 ln((1+N)/(1+df))+1 以避免
// 两篇文档共有的词项权重归零
func cosineSimilarity(tokensA, tokensB []string) float64 {
	tfA := termFrequency(tokensA)
	tfB := termFrequency(tokensB)
	if len(tfA) == 0 || len(tfB) == 0 {
		return 0
	}

	// 构建联合词表
	vocab := make(map[string]struct{}, len(tfA)+len(tfB))
	for w := range tfA {
		vocab[w] = struct{}{}
	}
	for w := range tfB {
		vocab[w] = struct{}{}
	}

	const docCount = 2.0
	var dot, normA, normB float64
	for w := range vocab {
		df := 0.0
		if tfA[w] > 0 {
			df++
		}
		if tfB[w] > 0 {
			df++
		}
		idf := math.Log((1+docCount)/(1+df)) + 1

		a := float64(tfA[w]) * idf
		b := float64(tfB[w]) * idf
		dot += a * b
		normA += a * a
		normB += b * b
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// termFrequency 统计词频，停用词和非字母词不计入词表
func termFrequency(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, w := range tokens {
		if !isAlphabetic(w) || nlp.IsStopword(w) {
			continue
		}
		tf[w]++
	}
	return tf
}

// tokenize 按空白切分文本并转为小写
// 去除词首尾的标点，保留词内部的连字符等字符
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// isAlphabetic 判断单词是否全部由字母组成
func isAlphabetic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
