package python

import (
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
)

type SymbolResolver struct{}

func NewPythonSymbolResolver() *SymbolResolver {
	return &SymbolResolver{}
}

// =============================================================================
// 1. 基础接口实现 (Basic Interface)
// =============================================================================

func (r *SymbolResolver) BuildQualifiedName(modules []string, name string) string {
	if len(modules) == 0 {
		return name
	}
	return strings.Join(modules, ModuleSeparator) + ModuleSeparator + name
}

// SplitQualifiedName 只在括号深度为 0 且不在字符串内的 "." 处拆分,
// 因此 "typing.Generic[a.T]" -> ([typing], "Generic[a.T]")
func (r *SymbolResolver) SplitQualifiedName(qn string) ([]string, string) {
	if qn == "" {
		return []string{}, ""
	}
	parts := splitTopLevel(qn)
	return parts[:len(parts)-1], parts[len(parts)-1]
}

func (r *SymbolResolver) Resolve(aliases core.AliasTable, dotted string) string {
	return aliases.Resolve(dotted)
}

// =============================================================================
// 2. 拆分工具 (Helpers)
// =============================================================================

func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 && !isNumericDot(s, i) {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// 1.5 之类的浮点字面量不是模块分隔符
func isNumericDot(s string, i int) bool {
	return i > 0 && s[i-1] >= '0' && s[i-1] <= '9' && (i == len(s)-1 || s[i+1] >= '0' && s[i+1] <= '9')
}
