package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	m := New(DefaultConfig())

	t.Run("IdenticalTexts", func(t *testing.T) {
		text := "Built distributed systems in Go and deployed services on kubernetes."
		result := m.Match(text, text)

		assert.Equal(t, 100.0, result.Similarity)
		assert.Empty(t, result.MissingKeywords)
	})

	t.Run("DisjointTexts", func(t *testing.T) {
		result := m.Match("alpha beta gamma", "delta epsilon zeta")
		assert.Equal(t, 0.0, result.Similarity)
	})

	t.Run("SimilarityWithinBounds", func(t *testing.T) {
		cases := [][2]string{
			{"", ""},
			{"golang developer", "golang developer wanted"},
			{"short", "a much longer job description with many different words in it"},
		}
		for _, c := range cases {
			result := m.Match(c[0], c[1])
			assert.GreaterOrEqual(t, result.Similarity, 0.0)
			assert.LessOrEqual(t, result.Similarity, 100.0)
		}
	})

	t.Run("MissingKeywords", func(t *testing.T) {
		resume := "Built Go services and deployed containers to kubernetes."
		job := "Looking for senior engineer with python and aws experience. python skills required."

		result := m.Match(resume, job)

		assert.Contains(t, result.MissingKeywords, "python")
		assert.Contains(t, result.MissingKeywords, "aws")
		assert.Contains(t, result.MissingKeywords, "senior")
		assert.Contains(t, result.MissingKeywords, "experience")

		// python出现两次，应排在首位
		require.NotEmpty(t, result.MissingKeywords)
		assert.Equal(t, "python", result.MissingKeywords[0])
	})

	t.Run("PythonDeveloperScenario", func(t *testing.T) {
		result := m.Match("Python developer", "Senior Python developer with AWS experience")

		assert.Greater(t, result.Similarity, 0.0)
		assert.Less(t, result.Similarity, 100.0)

		assert.Contains(t, result.MissingKeywords, "senior")
		assert.Contains(t, result.MissingKeywords, "aws")
		assert.Contains(t, result.MissingKeywords, "experience")
		// with是停用词，不计入缺失关键词
		assert.NotContains(t, result.MissingKeywords, "with")
		assert.NotContains(t, result.MissingKeywords, "python")
		assert.NotContains(t, result.MissingKeywords, "developer")
	})

	t.Run("MissingKeywordsExcludeStopwordsAndShortWords", func(t *testing.T) {
		result := m.Match("golang services", "we do go for the team in it")

		assert.NotContains(t, result.MissingKeywords, "the")
		assert.NotContains(t, result.MissingKeywords, "for")
		assert.NotContains(t, result.MissingKeywords, "we")
		// 长度不足3的词不计入
		assert.NotContains(t, result.MissingKeywords, "go")
		assert.NotContains(t, result.MissingKeywords, "it")
	})

	t.Run("MissingKeywordsDeterministic", func(t *testing.T) {
		resume := "java spring hibernate"
		job := "rust tokio actix diesel wasm embedded systems programming"

		first := m.Match(resume, job)
		for i := 0; i < 5; i++ {
			again := m.Match(resume, job)
			assert.Equal(t, first.MissingKeywords, again.MissingKeywords)
			assert.Equal(t, first.Similarity, again.Similarity)
		}
	})

	t.Run("MissingKeywordsCapped", func(t *testing.T) {
		small := New(Config{MaxMissingKeywords: 3, MinKeywordLength: 3})
		result := small.Match("golang", "rust python java scala kotlin swift ruby perl haskell")
		assert.Len(t, result.MissingKeywords, 3)
	})

	t.Run("PunctuationStripped", func(t *testing.T) {
		result := m.Match("kubernetes, docker.", "kubernetes docker")
		assert.Equal(t, 100.0, result.Similarity)
		assert.Empty(t, result.MissingKeywords)
	})
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("Hello, World! (Go-lang) 2024")
	assert.Equal(t, []string{"hello", "world", "go-lang", "2024"}, tokens)
}

func TestIsAlphabetic(t *testing.T) {
	assert.True(t, isAlphabetic("golang"))
	assert.False(t, isAlphabetic("go-lang"))
	assert.False(t, isAlphabetic("2024"))
	assert.False(t, isAlphabetic(""))
}
