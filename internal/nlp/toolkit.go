package nlp

// Token 词元结构
// 包含分析所需的词形、词性和停用词标记信息
type Token struct {
	Text    string // 原始文本
	Lower   string // 小写形式
	Tag     string // 词性标记（Penn Treebank风格，如VB、NN）
	Lemma   string // 词元（词典原形）
	IsAlpha bool   // 是否为纯字母词
	IsStop  bool   // 是否为停用词
}

// Entity 命名实体
type Entity struct {
	Text  string `json:"text"`  // 实体文本
	Label string `json:"label"` // 实体类型标签（如PERSON、GPE）
}

// IsVerb 判断词元是否为动词
// Penn Treebank动词标记均以VB开头（VB、VBD、VBG、VBN、VBP、VBZ）
func (t Token) IsVerb() bool {
	return len(t.Tag) >= 2 && t.Tag[0] == 'V' && t.Tag[1] == 'B'
}

// Toolkit NLP工具包接口
// 将分词、分句、实体识别和可读性计算抽象出来，
// 使核心评分逻辑可以用合成数据独立测试
type Toolkit interface {
	// Tokenize 对文本进行分词和词性标注
	Tokenize(text string) ([]Token, error)

	// Sentences 将文本分割为句子
	Sentences(text string) ([]string, error)

	// Entities 提取命名实体
	Entities(text string) ([]Entity, error)

	// FleschReadingEase 计算Flesch易读性分数
	FleschReadingEase(text string) (float64, error)

	// FleschKincaidGrade 计算Flesch-Kincaid年级水平
	FleschKincaidGrade(text string) (float64, error)
}
