package core

import (
	"strings"
	"sync"

	"github.com/CodMac/pydiagram-lens/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ClassEntry 一个类定义: 提取出的记录 + 对应的 AST 节点
type ClassEntry struct {
	Record *model.ClassRecord
	Node   *sitter.Node // 绑定阶段结束后被 Release 清空
}

// PendingReference 文件内无法解析、需要在全局合并阶段再尝试的引用
type PendingReference struct {
	Source  *model.ClassRecord
	Kind    model.RelationKind
	Name    string
	Modules []string
}

// AliasTable 导入别名表 (本地绑定名 -> 全限定名), 每个源文件构建一次, 之后只读
type AliasTable map[string]string

// Resolve 按点号分段做 token 级别替换: 取最长的、恰好是别名键的前缀段替换为其全限定值。
// 不做子串替换, 因此 "c" 不会污染 "calc.Base"。
func (t AliasTable) Resolve(dotted string) string {
	resolved, _ := t.Lookup(dotted)
	return resolved
}

// Lookup 同 Resolve, 额外返回是否命中了某个别名键
func (t AliasTable) Lookup(dotted string) (string, bool) {
	if len(t) == 0 || dotted == "" {
		return dotted, false
	}
	segs := strings.Split(dotted, ".")
	for k := len(segs); k > 0; k-- {
		key := strings.Join(segs[:k], ".")
		if full, ok := t[key]; ok {
			rest := segs[k:]
			if len(rest) == 0 {
				return full, true
			}
			return full + "." + strings.Join(rest, "."), true
		}
	}
	return dotted, false
}

// FileContext 存储了单个源文件的提取结果
type FileContext struct {
	FilePath    string
	ModulePath  []string
	RootNode    *sitter.Node
	SourceBytes *[]byte
	Classes     []*ClassEntry
	Aliases     AliasTable
	Pending     []*PendingReference
	Warnings    []error
	mutex       sync.RWMutex
}

func NewFileContext(filePath string, modulePath []string, rootNode *sitter.Node, sourceBytes *[]byte) *FileContext {
	return &FileContext{
		FilePath:    filePath,
		ModulePath:  modulePath,
		RootNode:    rootNode,
		SourceBytes: sourceBytes,
		Classes:     []*ClassEntry{},
		Aliases:     AliasTable{},
	}
}

func (fc *FileContext) AddClass(rec *model.ClassRecord, node *sitter.Node) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.Classes = append(fc.Classes, &ClassEntry{Record: rec, Node: node})
}

func (fc *FileContext) AddPending(ref *PendingReference) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.Pending = append(fc.Pending, ref)
}

func (fc *FileContext) AddWarning(err error) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.Warnings = append(fc.Warnings, err)
}

// Records 按声明顺序(前序)返回文件内全部类记录
func (fc *FileContext) Records() []*model.ClassRecord {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	out := make([]*model.ClassRecord, 0, len(fc.Classes))
	for _, entry := range fc.Classes {
		out = append(out, entry.Record)
	}
	return out
}

// FindByShortName 返回文件内第一个名为 name 且不是 exclude 的记录
func (fc *FileContext) FindByShortName(name string, exclude *model.ClassRecord) (*model.ClassRecord, bool) {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	for _, entry := range fc.Classes {
		if entry.Record.Name == name && entry.Record != exclude {
			return entry.Record, true
		}
	}
	return nil, false
}

// Release 丢弃对 AST 的引用, 之后语法树可以安全关闭
func (fc *FileContext) Release() {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.RootNode = nil
	fc.SourceBytes = nil
	for _, entry := range fc.Classes {
		entry.Node = nil
	}
}

// Clone 深拷贝已释放的上下文 (记录与待解析引用一起复制, 引用指针重新映射)
func (fc *FileContext) Clone() *FileContext {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()

	out := NewFileContext(fc.FilePath, append([]string(nil), fc.ModulePath...), nil, nil)
	mapping := make(map[*model.ClassRecord]*model.ClassRecord, len(fc.Classes))
	for _, entry := range fc.Classes {
		rec := entry.Record.Clone()
		mapping[entry.Record] = rec
		out.Classes = append(out.Classes, &ClassEntry{Record: rec})
	}
	for k, v := range fc.Aliases {
		out.Aliases[k] = v
	}
	for _, ref := range fc.Pending {
		out.Pending = append(out.Pending, &PendingReference{
			Source:  mapping[ref.Source],
			Kind:    ref.Kind,
			Name:    ref.Name,
			Modules: append([]string(nil), ref.Modules...),
		})
	}
	out.Warnings = append(out.Warnings, fc.Warnings...)
	return out
}

// SetFilePath 缓存命中时把上下文改挂到当前文件
func (fc *FileContext) SetFilePath(path string) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.FilePath = path
	for _, entry := range fc.Classes {
		if entry.Record.Location != nil {
			entry.Record.Location.FilePath = path
		}
	}
}
