package analyzer

// 改进建议文案
const (
	TipLongSentences = "Your sentences run long. Aim for under 22 words per sentence so recruiters can skim quickly."
	TipMoreBullets   = "Use more bullet points to break dense paragraphs into scannable achievements."
	TipActionVerbs   = "Lead your accomplishments with more action verbs."
	TipWeakVerbs     = "Swap weak verbs for stronger alternatives - see the suggested replacements."
	TipDenseText     = "The text reads dense. Shorter words and sentences improve readability."
	TipFallback      = "Solid structure. Consider adding quantified metrics to strengthen impact."
)

// Thresholds 反馈规则阈值
// 固定常量作为配置数据处理，便于独立调整和测试
type Thresholds struct {
	MaxAvgSentenceLength float64 // 平均句长上限
	MinBulletCount       int     // 项目符号数量下限
	MinLineCount         int     // 触发项目符号规则所需的最少行数
	MinVerbDensity       float64 // 动作动词密度下限（百分比）
	WeakVerbLimit        int     // 触发弱动词建议的出现次数
	MinReadability       float64 // Flesch易读性下限
}

// DefaultThresholds 返回默认反馈阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxAvgSentenceLength: 22,
		MinBulletCount:       3,
		MinLineCount:         6,
		MinVerbDensity:       3,
		WeakVerbLimit:        3,
		MinReadability:       20,
	}
}

// feedbackRule 单条反馈规则
// 各规则作为独立谓词评估，互不排斥
type feedbackRule struct {
	fires func(r *SignalReport, t Thresholds) bool
	tip   string
}

// 反馈规则按固定顺序评估
var feedbackRules = []feedbackRule{
	{
		fires: func(r *SignalReport, t Thresholds) bool {
			return r.AvgSentenceLength > t.MaxAvgSentenceLength
		},
		tip: TipLongSentences,
	},
	{
		fires: func(r *SignalReport, t Thresholds) bool {
			return r.BulletCount < t.MinBulletCount && r.LineCount > t.MinLineCount
		},
		tip: TipMoreBullets,
	},
	{
		fires: func(r *SignalReport, t Thresholds) bool {
			return r.ActionVerbDensity < t.MinVerbDensity
		},
		tip: TipActionVerbs,
	},
	{
		fires: func(r *SignalReport, t Thresholds) bool {
			return r.WeakVerbOccurrences >= t.WeakVerbLimit
		},
		tip: TipWeakVerbs,
	},
	{
		fires: func(r *SignalReport, t Thresholds) bool {
			return r.Readability < t.MinReadability
		},
		tip: TipDenseText,
	},
}

// FeedbackEngine 反馈规则引擎
// 将信号阈值映射为改进建议字符串
type FeedbackEngine struct {
	thresholds Thresholds
}

// NewFeedbackEngine 创建反馈规则引擎
func NewFeedbackEngine(thresholds Thresholds) *FeedbackEngine {
	return &FeedbackEngine{
		thresholds: thresholds,
	}
}

// Evaluate 评估信号报告并返回有序的建议列表
// 没有任何规则命中时返回唯一的兜底建议，结果永不为空
func (e *FeedbackEngine) Evaluate(r *SignalReport) []string {
	// 空文档没有可评估的信号，零值报告不应误触发密度和易读性规则
	if r.TotalWords == 0 && r.LineCount == 0 {
		return []string{TipFallback}
	}

	tips := []string{}
	for _, rule := range feedbackRules {
		if rule.fires(r, e.thresholds) {
			tips = append(tips, rule.tip)
		}
	}

	if len(tips) == 0 {
		tips = append(tips, TipFallback)
	}

	return tips
}
