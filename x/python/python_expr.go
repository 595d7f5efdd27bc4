package python

import (
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// =============================================================================
// 表达式渲染 (Expression Rendering)
// =============================================================================
//
// 基类与注解表达式被归入一个封闭的变体集合, 每种变体对应一条渲染规则;
// 集合之外的节点统一落到 exprUnsupported 分支并返回 UnsupportedExpressionError。

type exprKind int

const (
	exprUnsupported exprKind = iota
	exprName
	exprAttribute
	exprSubscript
	exprCall
	exprTuple
	exprList
	exprConstant
	exprBinaryOp
	exprParenthesized
)

func classifyExpr(node *sitter.Node) exprKind {
	switch node.Kind() {
	case "identifier":
		return exprName
	case "attribute":
		return exprAttribute
	case "subscript":
		return exprSubscript
	case "call":
		return exprCall
	case "tuple":
		return exprTuple
	case "list":
		return exprList
	case "integer", "float", "string", "concatenated_string", "true", "false", "none", "ellipsis":
		return exprConstant
	case "binary_operator":
		return exprBinaryOp
	case "parenthesized_expression":
		return exprParenthesized
	}
	return exprUnsupported
}

// exprRenderer 把表达式还原为文本, 名称与属性链在渲染时做别名替换
type exprRenderer struct {
	src     []byte
	aliases core.AliasTable
}

func newExprRenderer(src []byte, aliases core.AliasTable) *exprRenderer {
	return &exprRenderer{src: src, aliases: aliases}
}

func (r *exprRenderer) render(node *sitter.Node) (string, error) {
	switch classifyExpr(node) {
	case exprName:
		return r.aliases.Resolve(r.text(node)), nil

	case exprAttribute:
		if chain, ok := dottedChain(node, r.src); ok {
			return r.aliases.Resolve(chain), nil
		}
		obj, err := r.render(node.ChildByFieldName("object"))
		if err != nil {
			return "", err
		}
		return obj + ModuleSeparator + r.text(node.ChildByFieldName("attribute")), nil

	case exprSubscript:
		value := node.ChildByFieldName("value")
		base, err := r.render(value)
		if err != nil {
			return "", err
		}
		items, err := r.renderList(namedChildrenExcept(node, value))
		if err != nil {
			return "", err
		}
		return base + "[" + strings.Join(items, ", ") + "]", nil

	case exprCall:
		fn, err := r.render(node.ChildByFieldName("function"))
		if err != nil {
			return "", err
		}
		var items []string
		if args := node.ChildByFieldName("arguments"); args != nil {
			if items, err = r.renderList(namedChildren(args)); err != nil {
				return "", err
			}
		}
		return fn + "(" + strings.Join(items, ", ") + ")", nil

	case exprTuple:
		items, err := r.renderList(namedChildren(node))
		if err != nil {
			return "", err
		}
		if len(items) == 1 {
			return "(" + items[0] + ",)", nil
		}
		return "(" + strings.Join(items, ", ") + ")", nil

	case exprList:
		items, err := r.renderList(namedChildren(node))
		if err != nil {
			return "", err
		}
		return "[" + strings.Join(items, ", ") + "]", nil

	case exprConstant:
		return r.text(node), nil

	case exprBinaryOp:
		left, err := r.render(node.ChildByFieldName("left"))
		if err != nil {
			return "", err
		}
		right, err := r.render(node.ChildByFieldName("right"))
		if err != nil {
			return "", err
		}
		return left + " " + r.text(node.ChildByFieldName("operator")) + " " + right, nil

	case exprParenthesized:
		inner := firstNamedChild(node)
		if inner == nil {
			return "()", nil
		}
		s, err := r.render(inner)
		if err != nil {
			return "", err
		}
		return "(" + s + ")", nil
	}

	return "", core.NewUnsupportedExpressionError(node.Kind(), int(node.StartPosition().Row)+1)
}

// renderList 渲染参数/元素列表; keyword_argument 渲染为 name=value
func (r *exprRenderer) renderList(nodes []*sitter.Node) ([]string, error) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind() == nodeKeywordArgument {
			value, err := r.render(n.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			out = append(out, r.text(n.ChildByFieldName("name"))+"="+value)
			continue
		}
		s, err := r.render(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *exprRenderer) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(r.src)
}

// =============================================================================
// 名称链 (Dotted Chains)
// =============================================================================

// dottedChain 把 identifier / attribute / member_type 组成的纯名称链还原为 "a.b.C"。
// 链中夹杂调用、下标等其他节点时返回 false。
func dottedChain(node *sitter.Node, src []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case nodeIdentifier:
		return node.Utf8Text(src), true
	case nodeAttribute:
		obj, ok := dottedChain(node.ChildByFieldName("object"), src)
		if !ok {
			return "", false
		}
		return obj + ModuleSeparator + node.ChildByFieldName("attribute").Utf8Text(src), true
	case "member_type":
		var parts []string
		for _, c := range namedChildren(node) {
			s, ok := dottedChain(c, src)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ModuleSeparator), len(parts) > 0
	case "type":
		if inner := firstNamedChild(node); inner != nil && node.NamedChildCount() == 1 {
			return dottedChain(inner, src)
		}
	}
	return "", false
}

// collectChains 收集类型表达式中出现的全部名称链 (前序),
// 字符串形式的前向引用 ("Foo" / "pkg.Foo") 也视为名称链
func collectChains(node *sitter.Node, src []byte, emit func(chain string)) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case nodeIdentifier, nodeAttribute, "member_type":
		if chain, ok := dottedChain(node, src); ok {
			emit(chain)
			return
		}
	case "string":
		if ref := forwardReference(node, src); ref != "" {
			emit(ref)
		}
		return
	case nodeKeywordArgument:
		collectChains(node.ChildByFieldName("value"), src, emit)
		return
	case nodeComment:
		return
	}
	for _, c := range namedChildren(node) {
		collectChains(c, src, emit)
	}
}

// forwardReference 提取形如 "pkg.Foo" 的字符串注解内容, 非名称链返回空串
func forwardReference(node *sitter.Node, src []byte) string {
	var content string
	for _, c := range namedChildren(node) {
		if c.Kind() == "string_content" {
			content += c.Utf8Text(src)
		} else if c.Kind() == "interpolation" {
			return ""
		}
	}
	content = strings.TrimSpace(content)
	if !isDottedName(content) {
		return ""
	}
	return content
}

func isDottedName(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ModuleSeparator) {
		if !isIdentifier(seg) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r > 0x7f:
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// =============================================================================
// 节点工具 (Node Helpers)
// =============================================================================

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(uint(i))
		if c == nil || c.Kind() == nodeComment {
			continue
		}
		out = append(out, c)
	}
	return out
}

func namedChildrenExcept(node, skip *sitter.Node) []*sitter.Node {
	all := namedChildren(node)
	if skip == nil {
		return all
	}
	out := all[:0]
	for _, c := range all {
		if c.Id() != skip.Id() {
			out = append(out, c)
		}
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if children := namedChildren(node); len(children) > 0 {
		return children[0]
	}
	return nil
}

func nodeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(src)
}
