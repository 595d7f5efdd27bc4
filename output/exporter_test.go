package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleGraph() (*core.GlobalContext, []*model.ClassRecord) {
	ret := "str"
	animal := model.NewClassRecord([]string{"zoo"}, "Animal")
	animal.AddAttribute("_name")
	animal.AddMethod("speak", []string{"loud"}, &ret)

	dog := model.NewClassRecord([]string{"zoo"}, "Dog")
	dog.AddRelationship(model.NewRelationship(model.Inheritance, "Animal", []string{"zoo"}))
	dog.AddRelationship(model.NewRelationship(model.Association, "Leash", []string{"gear"}))

	base := model.NewPlaceholder("Base", []string{"external"})

	gc := core.NewGlobalContext()
	fc := core.NewFileContext("zoo.py", []string{"zoo"}, nil, nil)
	fc.AddClass(animal, nil)
	fc.AddClass(dog, nil)
	gc.RegisterFileContext(fc)
	gc.AddRecord(base)
	return gc, gc.Records
}

func TestEncode_JSONShape(t *testing.T) {
	_, records := sampleGraph()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, records, JSON))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)

	animal := decoded[0]
	assert.Equal(t, "Animal", animal["name"])
	assert.Equal(t, []interface{}{"zoo"}, animal["module_path"])
	assert.Equal(t, []interface{}{}, animal["relationships"])

	attr := animal["attributes"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Private", attr["encapsulation"])
	assert.Contains(t, attr, "data_type")
	assert.Nil(t, attr["data_type"])

	method := animal["methods"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "str", method["return_value"])
	assert.Equal(t, []interface{}{"loud"}, method["args"])

	rel := decoded[1]["relationships"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Inheritance", rel["relation_kind"])
	assert.Equal(t, "Animal", rel["target_name"])

	// 占位类与普通类同构, 不输出内部字段
	assert.NotContains(t, decoded[2], "IsExternal")
	assert.Equal(t, []interface{}{}, decoded[2]["methods"])
	assert.True(t, strings.Contains(buf.String(), "\n    {"), "4 空格缩进")
}

func TestEncode_JSONLAndYAML(t *testing.T) {
	_, records := sampleGraph()

	var jsonl bytes.Buffer
	require.NoError(t, Encode(&jsonl, records, JsonL))
	lines := strings.Split(strings.TrimSpace(jsonl.String()), "\n")
	assert.Len(t, lines, 3)

	var y bytes.Buffer
	require.NoError(t, Encode(&y, records, YAML))
	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "Dog", decoded[1]["name"])
	assert.Contains(t, y.String(), "data_type: null")

	var empty bytes.Buffer
	require.NoError(t, Encode(&empty, nil, JSON))
	assert.Equal(t, "[]\n", empty.String())

	assert.Error(t, Encode(&empty, records, Mermaid))
}

func TestWriteMermaidHTML(t *testing.T) {
	gc, records := sampleGraph()

	var buf bytes.Buffer
	nodes, edges, err := WriteMermaidHTML(&buf, gc, records)
	require.NoError(t, err)
	assert.Equal(t, 3, nodes)
	// 指向 gear.Leash 的关联悬空, 不画
	assert.Equal(t, 1, edges)

	out := buf.String()
	assert.Contains(t, out, "classDiagram")
	assert.Contains(t, out, "namespace n_zoo {")
	assert.Contains(t, out, "n_zoo_Animal <|-- n_zoo_Dog")
	assert.Contains(t, out, "-_name")
	assert.Contains(t, out, "+speak(loud) str")
	assert.Contains(t, out, "<<external>>")
	assert.NotContains(t, out, "Leash")
}

func TestExporter_Export(t *testing.T) {
	gc, records := sampleGraph()
	dir := filepath.Join(t.TempDir(), "out")

	for _, format := range []OutType{JSON, JsonL, YAML, Mermaid} {
		nodes, _, path, err := NewExporter(dir, format).Export(gc, records)
		require.NoError(t, err, format)
		assert.Equal(t, 3, nodes)
		assert.Equal(t, filepath.Join(dir, format.FileName()), path)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	}

	_, err := ParseOutType("svg")
	assert.Error(t, err)
}
