package model

import "fmt"

// =============================================================================
// 实体同一性 (Identity)
// =============================================================================
//
// 两个 ClassRecord 被视为同一实体, 当且仅当名称相同, 且模块路径存在交集(或两者皆为空)。
// 关系往往只能从 import 语法推出部分路径, 所以这里不能要求严格相等。

// ModulesIntersect 判断两个模块路径是否至少共享一个段, 或两者皆为空
func ModulesIntersect(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	seen := make(map[string]struct{}, len(a))
	for _, seg := range a {
		seen[seg] = struct{}{}
	}
	for _, seg := range b {
		if _, ok := seen[seg]; ok {
			return true
		}
	}
	return false
}

// Matches 按同一性不变式判断记录是否对应 (name, modules)
func (c *ClassRecord) Matches(name string, modules []string) bool {
	return c.Name == name && ModulesIntersect(c.ModulePath, modules)
}

// MatchScore 对满足同一性的候选打分, 用于在多个同名类之间挑出唯一目标:
//   - 路径完全相同 最高
//   - 其次按共同后缀长度 (from a.b import X 通常给出完整的模块尾部)
//   - 再按交集大小
//
// 不满足同一性时返回 -1
func MatchScore(c *ClassRecord, name string, modules []string) int {
	if !c.Matches(name, modules) {
		return -1
	}
	if equalPath(c.ModulePath, modules) {
		return 1 << 20
	}
	suffix := 0
	for i, j := len(c.ModulePath)-1, len(modules)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if c.ModulePath[i] != modules[j] {
			break
		}
		suffix++
	}
	return suffix<<10 + intersectionSize(c.ModulePath, modules)
}

// BestMatch 从候选中挑出得分最高的记录, 同分取先发现者
func BestMatch(candidates []*ClassRecord, name string, modules []string, exclude *ClassRecord) (*ClassRecord, bool) {
	var best *ClassRecord
	bestScore := -1
	for _, cand := range candidates {
		if cand == exclude {
			continue
		}
		if score := MatchScore(cand, name, modules); score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best, best != nil
}

// BuildQualifiedName 构建限定名称 (Qualified Name, QN)
func BuildQualifiedName(parentQN, name string) string {
	if parentQN == "" || parentQN == "." {
		return name
	}
	return fmt.Sprintf("%s.%s", parentQN, name)
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intersectionSize(a, b []string) int {
	seen := make(map[string]struct{}, len(a))
	for _, seg := range a {
		seen[seg] = struct{}{}
	}
	n := 0
	for _, seg := range b {
		if _, ok := seen[seg]; ok {
			n++
			delete(seen, seg)
		}
	}
	return n
}
