package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strongReport 构造一份不触发任何反馈规则的信号报告
func strongReport() *SignalReport {
	return &SignalReport{
		AvgSentenceLength:   15,
		BulletCount:         8,
		LineCount:           20,
		ActionVerbDensity:   9,
		WeakVerbOccurrences: 0,
		Readability:         60,
	}
}

func TestFeedbackEngine(t *testing.T) {
	engine := NewFeedbackEngine(DefaultThresholds())

	t.Run("FallbackWhenNoRuleFires", func(t *testing.T) {
		tips := engine.Evaluate(strongReport())
		require.Len(t, tips, 1)
		assert.Equal(t, TipFallback, tips[0])
	})

	t.Run("LongSentences", func(t *testing.T) {
		r := strongReport()
		r.AvgSentenceLength = 30

		tips := engine.Evaluate(r)
		assert.Contains(t, tips, TipLongSentences)
		assert.NotContains(t, tips, TipFallback)
	})

	t.Run("FewBulletsOnLongDocument", func(t *testing.T) {
		r := strongReport()
		r.BulletCount = 1
		r.LineCount = 12

		tips := engine.Evaluate(r)
		assert.Contains(t, tips, TipMoreBullets)
	})

	t.Run("FewBulletsOnShortDocumentDoesNotFire", func(t *testing.T) {
		r := strongReport()
		r.BulletCount = 0
		r.LineCount = 4

		tips := engine.Evaluate(r)
		assert.NotContains(t, tips, TipMoreBullets)
	})

	t.Run("LowVerbDensity", func(t *testing.T) {
		r := strongReport()
		r.ActionVerbDensity = 1.5

		tips := engine.Evaluate(r)
		assert.Contains(t, tips, TipActionVerbs)
	})

	t.Run("WeakVerbs", func(t *testing.T) {
		r := strongReport()
		r.WeakVerbOccurrences = 4

		tips := engine.Evaluate(r)
		assert.Contains(t, tips, TipWeakVerbs)
	})

	t.Run("DenseText", func(t *testing.T) {
		r := strongReport()
		r.Readability = 10

		tips := engine.Evaluate(r)
		assert.Contains(t, tips, TipDenseText)
	})

	t.Run("MultipleRulesFireInOrder", func(t *testing.T) {
		r := strongReport()
		r.AvgSentenceLength = 40
		r.ActionVerbDensity = 0
		r.Readability = 5

		tips := engine.Evaluate(r)
		require.Len(t, tips, 3)
		assert.Equal(t, TipLongSentences, tips[0])
		assert.Equal(t, TipActionVerbs, tips[1])
		assert.Equal(t, TipDenseText, tips[2])
	})

	t.Run("NeverEmpty", func(t *testing.T) {
		tips := engine.Evaluate(&SignalReport{})
		assert.NotEmpty(t, tips)
	})

	t.Run("EmptyDocumentSingleFallback", func(t *testing.T) {
		// 零值报告只返回兜底建议，不触发密度或易读性规则
		tips := engine.Evaluate(&SignalReport{})
		require.Len(t, tips, 1)
		assert.Equal(t, TipFallback, tips[0])
	})
}

// TestEmptyTextPipeline 验证空文本经过完整分析管线得到零值报告和唯一兜底建议
func TestEmptyTextPipeline(t *testing.T) {
	toolkit := &fakeToolkit{verbs: map[string]string{}}
	extractor := NewExtractor(toolkit)
	calculator := NewCalculator(DefaultCalculatorConfig())
	engine := NewFeedbackEngine(DefaultThresholds())

	for _, text := range []string{"", "   \n\t  "} {
		fs, err := extractor.Extract(text)
		require.NoError(t, err)

		report := calculator.Calculate(fs)
		assert.Equal(t, 0, report.TotalWords)
		assert.Equal(t, 0, report.TotalSentences)
		assert.Equal(t, 0, report.BulletCount)
		assert.Equal(t, 0, report.LineCount)
		assert.Zero(t, report.ActionVerbDensity)
		assert.Zero(t, report.Readability)

		tips := engine.Evaluate(report)
		require.Len(t, tips, 1)
		assert.Equal(t, TipFallback, tips[0])
	}
}

// TestRepeatedWeakVerbScenario 重复使用helped的文本触发弱动词信号
func TestRepeatedWeakVerbScenario(t *testing.T) {
	toolkit := &fakeToolkit{
		verbs:       map[string]string{"helped": "help"},
		readability: 60,
	}
	extractor := NewExtractor(toolkit)
	calculator := NewCalculator(DefaultCalculatorConfig())
	engine := NewFeedbackEngine(DefaultThresholds())

	fs, err := extractor.Extract("I helped the team. I helped them again.")
	require.NoError(t, err)
	report := calculator.Calculate(fs)

	// 动作动词密度大于零，help按词元去重只命中一次
	assert.Greater(t, report.ActionVerbDensity, 0.0)
	require.Len(t, report.WeakVerbHits, 1)
	assert.Equal(t, "help", report.WeakVerbHits[0].Verb)
	assert.NotEmpty(t, report.WeakVerbHits[0].Suggestions)
	assert.Equal(t, 2, report.WeakVerbOccurrences)

	// 出现次数达到阈值后弱动词建议出现在反馈中
	fs, err = extractor.Extract("I helped the team. I helped them again. I helped once more.")
	require.NoError(t, err)
	report = calculator.Calculate(fs)
	assert.Equal(t, 3, report.WeakVerbOccurrences)
	assert.Contains(t, engine.Evaluate(report), TipWeakVerbs)
}
