package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
)

type OutType string

const (
	JSON    OutType = "json"
	JsonL   OutType = "jsonl"
	YAML    OutType = "yaml"
	Mermaid OutType = "mermaid"
)

// ParseOutType 校验输出格式
func ParseOutType(s string) (OutType, error) {
	switch t := OutType(s); t {
	case JSON, JsonL, YAML, Mermaid:
		return t, nil
	}
	return "", fmt.Errorf("unknown output format: %q", s)
}

// FileName 各格式对应的输出文件名
func (t OutType) FileName() string {
	switch t {
	case JSON:
		return "classes.json"
	case YAML:
		return "classes.yaml"
	case Mermaid:
		return "visualization.html"
	}
	return "classes.jsonl"
}

type Exporter struct {
	outputDir  string
	outputType OutType
}

func NewExporter(outputDir string, outputType OutType) *Exporter {
	return &Exporter{outputDir: outputDir, outputType: outputType}
}

// Export 写出结果文件, 返回 (类数量, 关系数量, 输出路径)
func (p *Exporter) Export(gCtx *core.GlobalContext, records []*model.ClassRecord) (int, int, string, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return 0, 0, "", err
	}
	outPath := filepath.Join(p.outputDir, p.outputType.FileName())

	f, err := os.Create(outPath)
	if err != nil {
		return 0, 0, "", err
	}
	defer f.Close()

	if p.outputType == Mermaid {
		nodes, edges, err := WriteMermaidHTML(f, gCtx, records)
		return nodes, edges, outPath, err
	}

	if err := Encode(f, records, p.outputType); err != nil {
		return 0, 0, "", err
	}
	relCount := 0
	for _, rec := range records {
		relCount += len(rec.Relationships)
	}
	return len(records), relCount, outPath, nil
}
