package nlp

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
	"github.com/mtso/syllables"
)

// ProseToolkit 基于prose实现的NLP工具包
// 分词、分句和实体识别由prose完成，词形还原由golem词典完成，
// 可读性公式基于syllables的音节计数
type ProseToolkit struct {
	lemmatizer *golem.Lemmatizer // 英文词形还原器
}

// New 创建NLP工具包实例
// 词形还原词典的加载只需进行一次，返回的句柄可被并发使用
func New() (*ProseToolkit, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemmatizer dictionary: %w", err)
	}

	return &ProseToolkit{
		lemmatizer: lemmatizer,
	}, nil
}

// Tokenize 对文本进行分词和词性标注
func (t *ProseToolkit) Tokenize(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return []Token{}, nil
	}

	// 实体提取在此不需要，跳过以减少开销
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize text: %w", err)
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for _, pt := range proseTokens {
		lower := strings.ToLower(pt.Text)
		alpha := isAlphabetic(pt.Text)

		// 非字母词（数字、标点）不做词形还原
		lemma := lower
		if alpha {
			lemma = t.lemmatizer.Lemma(lower)
		}

		tokens = append(tokens, Token{
			Text:    pt.Text,
			Lower:   lower,
			Tag:     pt.Tag,
			Lemma:   lemma,
			IsAlpha: alpha,
			IsStop:  IsStopword(lower),
		})
	}

	return tokens, nil
}

// Sentences 将文本分割为句子
func (t *ProseToolkit) Sentences(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to segment sentences: %w", err)
	}

	proseSents := doc.Sentences()
	sentences := make([]string, 0, len(proseSents))
	for _, s := range proseSents {
		sentences = append(sentences, s.Text)
	}

	return sentences, nil
}

// Entities 提取命名实体
func (t *ProseToolkit) Entities(text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []Entity{}, nil
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}

	proseEnts := doc.Entities()
	entities := make([]Entity, 0, len(proseEnts))
	for _, e := range proseEnts {
		entities = append(entities, Entity{
			Text:  e.Text,
			Label: e.Label,
		})
	}

	return entities, nil
}

// FleschReadingEase 计算Flesch易读性分数
// 公式: 206.835 - 1.015*(词数/句数) - 84.6*(音节数/词数)
// 空文本或零词文本返回0
func (t *ProseToolkit) FleschReadingEase(text string) (float64, error) {
	words, sents, sylls, err := t.readabilityStats(text)
	if err != nil {
		return 0, err
	}
	if words == 0 || sents == 0 {
		return 0, nil
	}

	w := float64(words)
	s := float64(sents)
	y := float64(sylls)
	return 206.835 - 1.015*(w/s) - 84.6*(y/w), nil
}

// FleschKincaidGrade 计算Flesch-Kincaid年级水平
// 公式: 0.39*(词数/句数) + 11.8*(音节数/词数) - 15.59
func (t *ProseToolkit) FleschKincaidGrade(text string) (float64, error) {
	words, sents, sylls, err := t.readabilityStats(text)
	if err != nil {
		return 0, err
	}
	if words == 0 || sents == 0 {
		return 0, nil
	}

	w := float64(words)
	s := float64(sents)
	y := float64(sylls)
	return 0.39*(w/s) + 11.8*(y/w) - 15.59, nil
}

// readabilityStats 统计可读性公式所需的词数、句数和音节数
func (t *ProseToolkit) readabilityStats(text string) (words, sents, sylls int, err error) {
	if strings.TrimSpace(text) == "" {
		return 0, 0, 0, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to compute readability stats: %w", err)
	}

	sents = len(doc.Sentences())
	for _, tok := range doc.Tokens() {
		if !isAlphabetic(tok.Text) {
			continue
		}
		words++
		sylls += syllables.In(tok.Text)
	}

	return words, sents, sylls, nil
}

// isAlphabetic 判断词元是否全部由字母组成
func isAlphabetic(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
