package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("The"))
	assert.True(t, IsStopword("WITH"))
	assert.False(t, IsStopword("kubernetes"))
	assert.False(t, IsStopword("built"))
	assert.False(t, IsStopword(""))
}

func TestTokenIsVerb(t *testing.T) {
	cases := []struct {
		tag  string
		want bool
	}{
		{"VB", true},
		{"VBD", true},
		{"VBG", true},
		{"VBZ", true},
		{"NN", false},
		{"JJ", false},
		{"V", false},
		{"", false},
	}

	for _, c := range cases {
		tok := Token{Tag: c.tag}
		assert.Equal(t, c.want, tok.IsVerb(), "tag %q", c.tag)
	}
}

func TestProseToolkit(t *testing.T) {
	toolkit, err := New()
	require.NoError(t, err)

	t.Run("Tokenize", func(t *testing.T) {
		tokens, err := toolkit.Tokenize("Built scalable APIs.")
		require.NoError(t, err)
		require.NotEmpty(t, tokens)

		var built *Token
		for i := range tokens {
			if tokens[i].Lower == "built" {
				built = &tokens[i]
				break
			}
		}
		require.NotNil(t, built, "expected token 'built' in output")
		assert.True(t, built.IsAlpha)
		assert.False(t, built.IsStop)
		// 过去式还原为原形
		assert.Equal(t, "build", built.Lemma)
	})

	t.Run("TokenizeEmpty", func(t *testing.T) {
		tokens, err := toolkit.Tokenize("   ")
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})

	t.Run("Sentences", func(t *testing.T) {
		sentences, err := toolkit.Sentences("I built the API. Then I deployed it to production.")
		require.NoError(t, err)
		assert.Len(t, sentences, 2)
	})

	t.Run("Entities", func(t *testing.T) {
		entities, err := toolkit.Entities("Alice worked at Google in London.")
		require.NoError(t, err)
		// 实体识别模型的输出不做精确断言，只验证结构
		for _, e := range entities {
			assert.NotEmpty(t, e.Text)
			assert.NotEmpty(t, e.Label)
		}
	})

	t.Run("FleschReadingEase", func(t *testing.T) {
		simple, err := toolkit.FleschReadingEase("The cat sat. The dog ran. It was fun.")
		require.NoError(t, err)

		dense, err := toolkit.FleschReadingEase(
			"Notwithstanding considerable organizational transformation initiatives, " +
				"interdepartmental communication methodologies remained substantially unoptimized.")
		require.NoError(t, err)

		// 简单文本比佶屈聱牙的文本更易读
		assert.Greater(t, simple, dense)
	})

	t.Run("FleschKincaidGrade", func(t *testing.T) {
		grade, err := toolkit.FleschKincaidGrade("The cat sat on the mat. The dog ran fast.")
		require.NoError(t, err)
		assert.Less(t, grade, 6.0)
	})

	t.Run("EmptyTextReadability", func(t *testing.T) {
		score, err := toolkit.FleschReadingEase("")
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})
}
