package core

import (
	"sync"

	"github.com/CodMac/pydiagram-lens/model"
)

// GlobalContext 存储了整个项目范围内的类记录, 顺序即发现顺序
type GlobalContext struct {
	FileContexts map[string]*FileContext
	Files        []string
	Records      []*model.ClassRecord
	Pending      []*PendingReference
	nameIndex    map[string][]*model.ClassRecord
	mutex        sync.RWMutex
}

func NewGlobalContext() *GlobalContext {
	return &GlobalContext{
		FileContexts: make(map[string]*FileContext),
		Records:      make([]*model.ClassRecord, 0),
		nameIndex:    make(map[string][]*model.ClassRecord),
	}
}

// RegisterFileContext 将文件的类记录按声明顺序追加到全局列表。
// 调用方负责按文件遍历顺序串行调用, 以保证输出确定。
func (gc *GlobalContext) RegisterFileContext(fc *FileContext) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	if _, ok := gc.FileContexts[fc.FilePath]; !ok {
		gc.Files = append(gc.Files, fc.FilePath)
	}
	gc.FileContexts[fc.FilePath] = fc

	for _, rec := range fc.Records() {
		gc.addRecordLocked(rec)
	}
	gc.Pending = append(gc.Pending, fc.Pending...)
}

// AddRecord 追加一条记录 (用于合成的占位类)
func (gc *GlobalContext) AddRecord(rec *model.ClassRecord) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()
	gc.addRecordLocked(rec)
}

func (gc *GlobalContext) addRecordLocked(rec *model.ClassRecord) {
	gc.Records = append(gc.Records, rec)
	gc.nameIndex[rec.Name] = append(gc.nameIndex[rec.Name], rec)
}

// FindByShortName 返回全部同名记录 (发现顺序)
func (gc *GlobalContext) FindByShortName(name string) ([]*model.ClassRecord, bool) {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	entries, ok := gc.nameIndex[name]
	return entries, ok
}

// Resolve 按同一性不变式查找唯一目标, 多个候选时取 MatchScore 最高者
func (gc *GlobalContext) Resolve(name string, modules []string, exclude *model.ClassRecord) (*model.ClassRecord, bool) {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	return model.BestMatch(gc.nameIndex[name], name, modules, exclude)
}

// ResolveRelationship 下游按同一性查找关系的目标记录
func (gc *GlobalContext) ResolveRelationship(rel model.RelationshipInfo) (*model.ClassRecord, bool) {
	return gc.Resolve(rel.TargetName, rel.TargetModulePath, nil)
}

// ReplaceRecords 用过滤后的记录列表重建索引
func (gc *GlobalContext) ReplaceRecords(records []*model.ClassRecord) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()
	gc.Records = make([]*model.ClassRecord, 0, len(records))
	gc.nameIndex = make(map[string][]*model.ClassRecord)
	for _, rec := range records {
		gc.addRecordLocked(rec)
	}
}

func (gc *GlobalContext) RLock() { gc.mutex.RLock() }

func (gc *GlobalContext) RUnlock() { gc.mutex.RUnlock() }
