package cache

import (
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() *core.FileContext {
	fc := core.NewFileContext("pkg/a.py", []string{"pkg", "a"}, nil, nil)
	rec := model.NewClassRecord([]string{"pkg", "a"}, "A")
	rec.AddAttribute("x")
	fc.AddClass(rec, nil)
	return fc
}

func TestExtractionCache_RoundTripIsolated(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	key := Key([]byte("class A: pass\n"), []string{"pkg", "a"}, core.BindOptions{})
	original := sampleContext()
	c.Add(key, original)

	// 写入后修改原值不影响缓存
	original.Classes[0].Record.AddAttribute("y")

	hit, ok := c.Get(key)
	require.True(t, ok)
	require.Len(t, hit.Classes, 1)
	assert.Len(t, hit.Classes[0].Record.Attributes, 1)

	// 命中的结果也是拷贝
	hit.Classes[0].Record.Name = "Changed"
	again, _ := c.Get(key)
	assert.Equal(t, "A", again.Classes[0].Record.Name)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestExtractionCache_Key(t *testing.T) {
	src := []byte("class A: pass\n")
	base := Key(src, []string{"pkg", "a"}, core.BindOptions{})

	assert.Equal(t, base, Key(src, []string{"pkg", "a"}, core.BindOptions{}))
	assert.NotEqual(t, base, Key(src, []string{"pkg", "b"}, core.BindOptions{}))
	assert.NotEqual(t, base, Key(src, []string{"pkg.a"}, core.BindOptions{}))
	assert.NotEqual(t, base, Key(src, []string{"pkg", "a"}, core.BindOptions{DedupeAssociations: true}))
	assert.NotEqual(t, base, Key([]byte("class B: pass\n"), []string{"pkg", "a"}, core.BindOptions{}))
}

func TestExtractionCache_Disabled(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	assert.Nil(t, c)

	// nil 缓存的全部方法都是空操作
	c.Add(1, sampleContext())
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Purge()
}

func TestExtractionCache_Eviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)
	for i := uint64(0); i < 3; i++ {
		c.Add(i, sampleContext())
	}
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(0)
	assert.False(t, ok)
}
