package python_test

import (
	"errors"
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	"github.com/CodMac/pydiagram-lens/x/python"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonBinder_Inheritance(t *testing.T) {
	fCtx := extractFile(t, "zoo.py", core.BindOptions{}, "zoo")

	cases := []struct {
		class    string
		expected []edge
	}{
		{"Animal", []edge{}},
		{"Dog", []edge{{model.Inheritance, "Animal", []string{"zoo"}}}},
		// import collections as c; class Registry(c.OrderedDict)
		{"Registry", []edge{{model.Inheritance, "OrderedDict", []string{"collections"}}}},
		// 顺序保持, metaclass= 不是基类
		{"Mixed", []edge{
			{model.Inheritance, "Alpha", []string{}},
			{model.Inheritance, "Beta", []string{}},
		}},
		{"Box", []edge{{model.Inheritance, "Generic[T]", []string{"typing"}}}},
		{"Loop", []edge{}},
		// 无法渲染的基类被跳过, 其余基类保留
		{"Odd", []edge{{model.Inheritance, "Animal", []string{"zoo"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.class, func(t *testing.T) {
			assert.Equal(t, tc.expected, edgesOf(findRecord(t, fCtx, tc.class)))
		})
	}

	require.Len(t, fCtx.Warnings, 1)
	warning := fCtx.Warnings[0]
	assert.ErrorIs(t, warning, core.ErrUnsupportedExpression)
	var ae *core.AnalysisError
	require.True(t, errors.As(warning, &ae))
	assert.Equal(t, "Odd", ae.ClassName)
	assert.Equal(t, 31, ae.Line)
}

func TestPythonBinder_Associations(t *testing.T) {
	garage := []string{"shop", "garage"}

	t.Run("Multiplicity kept by default", func(t *testing.T) {
		fCtx := extractFile(t, "garage.py", core.BindOptions{}, garage...)

		assert.Equal(t, []edge{
			{model.Association, "Engine", garage}, // engine: Engine
			{model.Association, "Wheel", garage},  // wheel: Wheel
			{model.Association, "Engine", garage}, // Engine()
			{model.Association, "Wheel", garage},  // Wheel()
		}, edgesOf(findRecord(t, fCtx, "Car")))

		// 嵌套类有自己的关系, 不计入外层类
		assert.Equal(t, []edge{{model.Association, "Engine", garage}}, edgesOf(findRecord(t, fCtx, "Part")))
		assert.Empty(t, findRecord(t, fCtx, "Engine").Relationships)
	})

	t.Run("Dedupe per target", func(t *testing.T) {
		fCtx := extractFile(t, "garage.py", core.BindOptions{DedupeAssociations: true}, garage...)
		assert.Equal(t, []edge{
			{model.Association, "Engine", garage},
			{model.Association, "Wheel", garage},
		}, edgesOf(findRecord(t, fCtx, "Car")))
	})

	t.Run("Imported names wait for the global merge", func(t *testing.T) {
		fCtx := extractFile(t, "garage.py", core.BindOptions{}, garage...)
		car := findRecord(t, fCtx, "Car")

		require.Len(t, fCtx.Pending, 2)
		assert.Same(t, car, fCtx.Pending[0].Source)
		assert.Equal(t, "User", fCtx.Pending[0].Name)
		assert.Equal(t, []string{"models"}, fCtx.Pending[0].Modules)
		assert.Equal(t, "Bucket", fCtx.Pending[1].Name)
		assert.Equal(t, []string{"storage"}, fCtx.Pending[1].Modules)
	})
}

func TestPythonBinder_ForwardReference(t *testing.T) {
	source := []byte(`class Node:
    def link(self, other: "Node", edge: "Edge"):
        pass


class Edge:
    pass
`)
	fCtx := extractSource(t, "graph.py", source, core.BindOptions{}, "graph")

	// 指向自身的注解不产生关联
	assert.Equal(t, []edge{{model.Association, "Edge", []string{"graph"}}}, edgesOf(findRecord(t, fCtx, "Node")))
}

func TestPythonBinder_SelfNamedBaseDropped(t *testing.T) {
	source := []byte(`class Node:
    pass


class Node(Node):
    pass
`)
	fCtx := extractSource(t, "redefine.py", source, core.BindOptions{}, "redefine")
	records := fCtx.Records()
	require.Len(t, records, 2)

	// 渲染文本与类名相同, 视为自继承丢弃
	assert.Empty(t, records[1].Relationships)
}

func TestPythonBinder_ReleasedContext(t *testing.T) {
	fCtx := extractFile(t, "zoo.py", core.BindOptions{}, "zoo")
	before := len(findRecord(t, fCtx, "Dog").Relationships)

	// 已释放的上下文没有源码, 再次绑定不做任何事
	require.NoError(t, python.NewPythonBinder().BindRelationships(fCtx, core.BindOptions{}))
	assert.Len(t, findRecord(t, fCtx, "Dog").Relationships, before)
}
