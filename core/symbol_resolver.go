package core

import "fmt"

// --- 语言特有的符号解析接口 ---

type SymbolResolver interface {
	// BuildQualifiedName 根据模块路径和名称构建 QN (Python 用 ".")
	BuildQualifiedName(modules []string, name string) string

	// SplitQualifiedName 把解析后的文本拆成 模块路径 + 名称 (括号内的分隔符不参与拆分)
	SplitQualifiedName(qn string) (modules []string, name string)

	// Resolve 用别名表把原始点号名改写为全限定名
	Resolve(aliases AliasTable, dotted string) string
}

var symbolResolverMap = make(map[Language]SymbolResolver)

// RegisterSymbolResolver 注册一个语言与其对应的 SymbolResolver。
func RegisterSymbolResolver(lang Language, resolver SymbolResolver) {
	symbolResolverMap[lang] = resolver
}

// GetSymbolResolver 根据语言类型获取对应的 SymbolResolver 实例。
func GetSymbolResolver(lang Language) (SymbolResolver, error) {
	resolver, ok := symbolResolverMap[lang]
	if !ok {
		return nil, fmt.Errorf("no SymbolResolver for language: %s", lang)
	}

	return resolver, nil
}
