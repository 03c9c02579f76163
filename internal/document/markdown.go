package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownParser Markdown简历解析器
// 遍历语法树收集文本节点，列表项还原为项目符号行
type MarkdownParser struct{}

// NewMarkdownParser 创建新的Markdown解析器
func NewMarkdownParser() Parser {
	return &MarkdownParser{}
}

// Parse 解析Markdown文件并提取文本内容
func (p *MarkdownParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open markdown file: %w", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader解析Markdown内容
func (p *MarkdownParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown content: %w", err)
	}

	extensions := parser.CommonExtensions
	mdParser := parser.NewWithExtensions(extensions)
	doc := mdParser.Parse(content)

	return renderPlainText(doc), nil
}

// renderPlainText 遍历Markdown语法树并还原为纯文本
// 保留换行结构，列表项前加"- "，使项目符号统计依然有效
func renderPlainText(doc ast.Node) string {
	var sb strings.Builder

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				sb.Write(n.Literal)
				sb.WriteString("\n")
			}
		case *ast.ListItem:
			if entering {
				sb.WriteString("- ")
			} else {
				sb.WriteString("\n")
			}
		case *ast.Heading, *ast.Paragraph:
			// 列表项内的段落不额外换行，避免破坏项目符号行
			if !entering && !insideListItem(node) {
				sb.WriteString("\n\n")
			}
		case *ast.Softbreak, *ast.Hardbreak:
			if entering {
				sb.WriteString("\n")
			}
		}
		return ast.GoToNext
	})

	return normalizeWhitespace(sb.String())
}

// insideListItem 判断节点是否位于列表项内
func insideListItem(node ast.Node) bool {
	for parent := node.GetParent(); parent != nil; parent = parent.GetParent() {
		if _, ok := parent.(*ast.ListItem); ok {
			return true
		}
	}
	return false
}

// normalizeWhitespace 规范化文本中的空白符
// 压缩行内空格，连续空行最多保留一个
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")

	var result []string
	blank := false
	for _, line := range lines {
		trimmed := strings.Join(strings.Fields(line), " ")
		if trimmed == "" {
			if !blank && len(result) > 0 {
				result = append(result, "")
			}
			blank = true
			continue
		}
		blank = false
		result = append(result, trimmed)
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
