package parser

import (
	"fmt"

	"github.com/CodMac/pydiagram-lens/core"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Parser 把源码解析为语法树
type Parser interface {
	Parse(sourceBytes []byte) (*sitter.Tree, error)
	ParseFile(filePath string) (*sitter.Tree, *[]byte, error)
	Close()
}

// GetLanguage 返回语言对应的 tree-sitter 语法
func GetLanguage(lang core.Language) (*sitter.Language, error) {
	switch lang {
	case core.LangPython:
		return sitter.NewLanguage(tree_sitter_python.Language()), nil
	}
	return nil, fmt.Errorf("unsupported language: %s", lang)
}

// TreeSitterParser 非并发安全, 每个 worker 持有一个实例
type TreeSitterParser struct {
	lang   core.Language
	parser *sitter.Parser
}

func NewParser(lang core.Language) (*TreeSitterParser, error) {
	language, err := GetLanguage(lang)
	if err != nil {
		return nil, err
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(language); err != nil {
		p.Close()
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}
	return &TreeSitterParser{lang: lang, parser: p}, nil
}

// Parse 解析源码; 含语法错误时返回 SyntaxError (行列为首个错误节点的位置), 树已被关闭
func (p *TreeSitterParser) Parse(sourceBytes []byte) (*sitter.Tree, error) {
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, &core.AnalysisError{Kind: core.KindSyntax, Detail: "parser returned no tree"}
	}
	root := tree.RootNode()
	if root.HasError() {
		line, col := 0, 0
		if bad := FirstSyntaxError(root); bad != nil {
			line, col = int(bad.StartPosition().Row)+1, int(bad.StartPosition().Column)+1
		}
		tree.Close()
		return nil, core.NewSyntaxError("", line, col)
	}
	return tree, nil
}

// ParseFile 读取(含编码探测)并解析文件
func (p *TreeSitterParser) ParseFile(filePath string) (*sitter.Tree, *[]byte, error) {
	source, err := LoadSource(filePath)
	if err != nil {
		return nil, nil, err
	}
	tree, err := p.Parse(source)
	if err != nil {
		if ae, ok := err.(*core.AnalysisError); ok {
			return nil, nil, ae.WithFile(filePath)
		}
		return nil, nil, err
	}
	return tree, &source, nil
}

func (p *TreeSitterParser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// FirstSyntaxError 前序遍历找到第一个 ERROR 或 MISSING 节点
func FirstSyntaxError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := FirstSyntaxError(node.Child(uint(i))); bad != nil {
			return bad
		}
	}
	return nil
}
