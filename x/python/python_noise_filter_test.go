package python_test

import (
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	"github.com/CodMac/pydiagram-lens/x/python"
	"github.com/stretchr/testify/assert"
)

func TestPythonNoiseFilter_Levels(t *testing.T) {
	object := model.NewRelationship(model.Inheritance, "object", nil)
	abc := model.NewRelationship(model.Inheritance, "ABC", []string{"abc"})
	shadowed := model.NewRelationship(model.Inheritance, "Exception", []string{"myapp", "errors"})
	local := model.NewRelationship(model.Inheritance, "Animal", []string{"zoo"})
	assoc := model.NewRelationship(model.Association, "dict", nil)

	raw := core.GetNoiseFilter(core.LangPython, core.LevelRaw)
	for _, rel := range []model.RelationshipInfo{object, abc, shadowed, local, assoc} {
		assert.False(t, raw.IsNoise(rel), rel.TargetName)
	}

	balanced := core.GetNoiseFilter(core.LangPython, core.LevelBalanced)
	assert.True(t, balanced.IsNoise(object))
	assert.True(t, balanced.IsNoise(abc))
	assert.False(t, balanced.IsNoise(shadowed), "同名但模块不同的类不是内置类型")
	assert.False(t, balanced.IsNoise(local))
	assert.False(t, balanced.IsNoise(assoc), "关联不参与降噪")

	balanced.SetLevel(core.LevelRaw)
	assert.False(t, balanced.IsNoise(object))
}

func TestPythonNoiseFilter_IsBuiltin(t *testing.T) {
	assert.True(t, python.IsBuiltin("Exception", nil))
	assert.True(t, python.IsBuiltin("Exception", []string{"builtins"}))
	assert.True(t, python.IsBuiltin("Enum", []string{"enum"}))
	assert.False(t, python.IsBuiltin("Enum", nil), "Enum 需要导入")
	assert.False(t, python.IsBuiltin("Widget", nil))
}
