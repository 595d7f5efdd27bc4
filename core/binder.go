package core

import "fmt"

// BindOptions 关系推导的可选行为
type BindOptions struct {
	// DedupeAssociations 为 true 时, 同一 (源类, 目标类) 只保留一条关联
	DedupeAssociations bool
}

// Binder 用于推导类之间的关系（语义绑定）
type Binder interface {
	// BindRelationships 只依据文件内信息(别名表 + 本文件类记录)推导继承与关联,
	// 无法在文件内确定的引用记入 FileContext.Pending 交给 Linker。
	BindRelationships(fc *FileContext, opts BindOptions) error
}

var binderMap = make(map[Language]Binder)

// RegisterBinder 注册一个语言与其对应的 Binder
func RegisterBinder(lang Language, binder Binder) {
	binderMap[lang] = binder
}

// GetBinder 根据语言类型获取对应的 Binder 实例。
func GetBinder(lang Language) (Binder, error) {
	binder, ok := binderMap[lang]
	if !ok {
		return nil, fmt.Errorf("no binder registered for language: %s", lang)
	}

	return binder, nil
}
