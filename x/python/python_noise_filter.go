package python

import (
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
)

type NoiseFilter struct {
	core.DefaultNoiseFilter
}

func NewPythonNoiseFilter(level core.FilterLevel) *NoiseFilter {
	return &NoiseFilter{
		DefaultNoiseFilter: core.DefaultNoiseFilter{Level: level},
	}
}

// IsNoise 在 Balanced 及以上等级把指向内置类型/标准库基类的继承视为噪音。
// 关联只会指向源码中的类, 始终保留。
// Pure 等级额外的占位类裁剪由处理器在合并之后完成。
func (f *NoiseFilter) IsNoise(rel model.RelationshipInfo) bool {
	if f.Level == core.LevelRaw || rel.Kind != model.Inheritance {
		return false
	}
	return IsBuiltin(rel.TargetName, rel.TargetModulePath)
}

func (f *NoiseFilter) SetLevel(level core.FilterLevel) {
	f.Level = level
}

// IsBuiltin 判断 (modules, name) 是否为内置表中的符号;
// builtins 的符号允许模块路径为空
func IsBuiltin(name string, modules []string) bool {
	qn, ok := BuiltinTable[name]
	if !ok {
		return false
	}
	module := strings.TrimSuffix(qn, ModuleSeparator+name)
	if len(modules) == 0 {
		return module == builtinsModule
	}
	return strings.Join(modules, ModuleSeparator) == module
}
