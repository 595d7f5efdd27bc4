package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
)

func safeID(id string) string {
	r := strings.NewReplacer(".", "_", "(", "_", ")", "_", "[", "_", "]", "_", " ", "_", "@", "at", "-", "_")
	return "n_" + r.Replace(id)
}

// mermaid 用 ~T~ 表示泛型, 方括号与引号会破坏语法
func safeText(s string) string {
	r := strings.NewReplacer("[", "~", "]", "~", "\"", "'", "{", "(", "}", ")", "\n", " ")
	return r.Replace(s)
}

func visibility(enc model.Encapsulation) string {
	if enc == model.Private {
		return "-"
	}
	return "+"
}

// WriteMermaidHTML 输出 classDiagram, 同一模块的类放在同一个 namespace 中;
// 关系目标按同一性在 gCtx 中查找, 悬空的关联不画
func WriteMermaidHTML(w io.Writer, gCtx *core.GlobalContext, records []*model.ClassRecord) (int, int, error) {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script></head>
<body><div class="mermaid">classDiagram
`)

	// 按模块分组, 保持首次出现的顺序
	var modules []string
	byModule := make(map[string][]*model.ClassRecord)
	for _, rec := range records {
		key := strings.Join(rec.ModulePath, ".")
		if _, ok := byModule[key]; !ok {
			modules = append(modules, key)
		}
		byModule[key] = append(byModule[key], rec)
	}

	for _, module := range modules {
		indent := "  "
		if module != "" {
			fmt.Fprintf(&b, "  namespace %s {\n", safeID(module))
			indent = "    "
		}
		for _, rec := range byModule[module] {
			writeClass(&b, indent, rec)
		}
		if module != "" {
			b.WriteString("  }\n")
		}
	}

	edgeCount := 0
	for _, rec := range records {
		srcID := safeID(rec.QualifiedName())
		for _, rel := range rec.Relationships {
			target, ok := gCtx.ResolveRelationship(rel)
			if !ok {
				continue
			}
			tgtID := safeID(target.QualifiedName())
			if srcID == tgtID {
				continue
			}
			switch rel.Kind {
			case model.Inheritance:
				fmt.Fprintf(&b, "  %s <|-- %s\n", tgtID, srcID)
			default:
				fmt.Fprintf(&b, "  %s --> %s\n", srcID, tgtID)
			}
			edgeCount++
		}
	}

	b.WriteString(`</div><script>mermaid.initialize({startOnLoad:true, maxTextSize:1000000});</script></body></html>
`)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, 0, err
	}
	return len(records), edgeCount, nil
}

func writeClass(b *strings.Builder, indent string, rec *model.ClassRecord) {
	fmt.Fprintf(b, "%sclass %s[\"%s\"] {\n", indent, safeID(rec.QualifiedName()), safeText(rec.Name))
	if rec.IsExternal {
		fmt.Fprintf(b, "%s  <<external>>\n", indent)
	}
	for _, attr := range rec.Attributes {
		fmt.Fprintf(b, "%s  %s%s\n", indent, visibility(attr.Encapsulation), safeText(attr.Name))
	}
	for _, m := range rec.Methods {
		ret := ""
		if m.ReturnValue != nil {
			ret = " " + safeText(*m.ReturnValue)
		}
		fmt.Fprintf(b, "%s  %s%s(%s)%s\n", indent, visibility(m.Encapsulation), m.Name, strings.Join(m.Args, ", "), ret)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}
