package python

import (
	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
)

type Linker struct{}

func NewPythonLinker() *Linker {
	return &Linker{}
}

// LinkRecords 全局合并, 必须在全部文件注册完成之后串行调用:
//  1. 跨文件的关联引用按同一性在全局列表中查找, 找到则追加到来源类
//  2. 每条找不到目标的继承边合成一个占位类, 按触发顺序追加到全局列表末尾;
//     之后同一性相同的继承边会直接命中这个占位类
//  3. 找不到目标的关联保持悬空, 不合成占位类
func (l *Linker) LinkRecords(gc *core.GlobalContext, opts core.BindOptions) []*model.ClassRecord {
	// --- 1. 跨文件关联 ---
	for _, ref := range gc.Pending {
		if ref.Source == nil {
			continue
		}
		target, ok := gc.Resolve(ref.Name, ref.Modules, ref.Source)
		if !ok {
			continue
		}
		addAssociation(ref.Source, model.NewRelationship(ref.Kind, target.Name, target.ModulePath), opts)
	}
	gc.Pending = nil

	// --- 2. 继承闭包 ---
	placeholders := make([]*model.ClassRecord, 0)
	n := len(gc.Records)
	for i := 0; i < n; i++ {
		rec := gc.Records[i]
		for _, rel := range rec.Relationships {
			if rel.Kind != model.Inheritance {
				continue
			}
			if _, ok := gc.ResolveRelationship(rel); ok {
				continue
			}
			placeholder := model.NewPlaceholder(rel.TargetName, rel.TargetModulePath)
			gc.AddRecord(placeholder)
			placeholders = append(placeholders, placeholder)
		}
	}
	return placeholders
}
