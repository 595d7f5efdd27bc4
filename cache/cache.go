package cache

import (
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ExtractionCache 以源码内容哈希为键缓存单文件的提取结果 (已释放 AST 的 FileContext)。
// 存取时都做深拷贝, 命中的结果可以被调用方随意修改。nil 值表示关闭缓存。
type ExtractionCache struct {
	entries *lru.Cache[uint64, *core.FileContext]
}

func New(size int) (*ExtractionCache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, err := lru.New[uint64, *core.FileContext](size)
	if err != nil {
		return nil, err
	}
	return &ExtractionCache{entries: entries}, nil
}

// Key 内容 + 模块路径 + 影响提取结果的选项
func Key(source []byte, modulePath []string, opts core.BindOptions) uint64 {
	d := xxhash.New()
	_, _ = d.Write(source)
	_, _ = d.WriteString("\x00" + strings.Join(modulePath, "\x1f"))
	if opts.DedupeAssociations {
		_, _ = d.WriteString("\x00dedupe")
	}
	return d.Sum64()
}

func (c *ExtractionCache) Get(key uint64) (*core.FileContext, bool) {
	if c == nil {
		return nil, false
	}
	fc, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return fc.Clone(), true
}

func (c *ExtractionCache) Add(key uint64, fc *core.FileContext) {
	if c == nil {
		return
	}
	c.entries.Add(key, fc.Clone())
}

func (c *ExtractionCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *ExtractionCache) Purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}
