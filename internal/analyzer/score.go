package analyzer

// Tier 评分档位
// 信号值达到Min时获得Points分
type Tier struct {
	Min    float64 // 档位下限（含）
	Points int     // 该档位的分值
}

// ScoreConfig 评分权重配置
// 五个信号各自独立评估档位后求和，封顶100分
type ScoreConfig struct {
	VerbDensity    []Tier // 动作动词密度档位
	BulletCount    []Tier // 项目符号数量档位
	Readability    []Tier // 易读性档位
	UniqueWords    []Tier // 词汇独特性档位
	WeakVerbPoints []int  // 按弱动词出现次数索引的分值，超出范围记0分
}

// DefaultScoreConfig 返回默认评分配置
// 各档位满分之和恰好为100
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		VerbDensity: []Tier{
			{Min: 8, Points: 25},
			{Min: 5, Points: 15},
			{Min: 3, Points: 10},
		},
		BulletCount: []Tier{
			{Min: 8, Points: 20},
			{Min: 5, Points: 12},
			{Min: 3, Points: 6},
		},
		Readability: []Tier{
			{Min: 40, Points: 20},
			{Min: 25, Points: 12},
			{Min: 15, Points: 6},
		},
		UniqueWords: []Tier{
			{Min: 70, Points: 20},
			{Min: 55, Points: 12},
			{Min: 40, Points: 6},
		},
		WeakVerbPoints: []int{15, 10, 5},
	}
}

// Scorer 评分聚合器
// 将信号报告映射为[0,100]区间内的整数分数
type Scorer struct {
	cfg ScoreConfig
}

// NewScorer 创建评分聚合器
func NewScorer(cfg ScoreConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score 计算简历分数
// 各档位按构造不会超过100，封顶是契约要求的防护
func (s *Scorer) Score(r *SignalReport) int {
	score := 0
	score += tierPoints(s.cfg.VerbDensity, r.ActionVerbDensity)
	score += tierPoints(s.cfg.BulletCount, float64(r.BulletCount))
	score += tierPoints(s.cfg.Readability, r.Readability)
	score += tierPoints(s.cfg.UniqueWords, r.UniqueWordPercent)

	if r.WeakVerbOccurrences >= 0 && r.WeakVerbOccurrences < len(s.cfg.WeakVerbPoints) {
		score += s.cfg.WeakVerbPoints[r.WeakVerbOccurrences]
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// tierPoints 返回信号值所落档位的分值
// 档位按Min降序排列，未达到任何档位时记0分
func tierPoints(tiers []Tier, value float64) int {
	for _, tier := range tiers {
		if value >= tier.Min {
			return tier.Points
		}
	}
	return 0
}
