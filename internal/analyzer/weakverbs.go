package analyzer

// 弱动词替换表
// 固定的配置数据：每个弱动词对应3个更有力的替换动词
var weakVerbTable = map[string][]string{
	"help":    {"spearheaded", "facilitated", "guided"},
	"work":    {"collaborated", "executed", "delivered"},
	"learn":   {"mastered", "adopted", "absorbed"},
	"do":      {"executed", "implemented", "performed"},
	"make":    {"built", "created", "produced"},
	"use":     {"leveraged", "applied", "deployed"},
	"try":     {"initiated", "piloted", "pursued"},
	"assist":  {"coordinated", "enabled", "championed"},
	"handle":  {"managed", "resolved", "oversaw"},
	"support": {"drove", "maintained", "reinforced"},
}

// WeakVerbSuggestions 查询弱动词的替换建议
func WeakVerbSuggestions(verb string) ([]string, bool) {
	suggestions, ok := weakVerbTable[verb]
	return suggestions, ok
}

// findWeakVerbs 在动词词元列表中查找弱动词
// 返回按动词去重的命中列表（保持首次出现顺序）和不去重的出现总次数
func findWeakVerbs(verbLemmas []string) ([]WeakVerbHit, int) {
	hits := []WeakVerbHit{}
	seen := make(map[string]struct{})
	occurrences := 0

	for _, verb := range verbLemmas {
		suggestions, ok := weakVerbTable[verb]
		if !ok {
			continue
		}
		occurrences++
		if _, dup := seen[verb]; dup {
			continue
		}
		seen[verb] = struct{}{}
		hits = append(hits, WeakVerbHit{
			Verb:        verb,
			Suggestions: suggestions,
		})
	}

	return hits, occurrences
}
