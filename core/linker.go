package core

import (
	"fmt"

	"github.com/CodMac/pydiagram-lens/model"
)

// Linker 在全部文件处理完成后执行全局合并。
type Linker interface {
	// LinkRecords 解析跨文件关系, 为找不到定义的继承目标合成占位类并追加到全局列表,
	// 返回新合成的占位类 (按触发顺序)
	LinkRecords(gc *GlobalContext, opts BindOptions) []*model.ClassRecord
}

var linkerMap = make(map[Language]Linker)

// RegisterLinker 注册一个语言与其对应的 Linker
func RegisterLinker(lang Language, linker Linker) {
	linkerMap[lang] = linker
}

// GetLinker 根据语言类型获取对应的 Linker 实例。
func GetLinker(lang Language) (Linker, error) {
	linker, ok := linkerMap[lang]
	if !ok {
		return nil, fmt.Errorf("no linker registered for language: %s", lang)
	}

	return linker, nil
}
