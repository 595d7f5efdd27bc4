package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/CodMac/pydiagram-lens/model"
	"gopkg.in/yaml.v3"
)

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{encoder: enc}
}

func (w *JSONLWriter) Write(v interface{}) error { return w.encoder.Encode(v) }

// Encode 按格式序列化类记录; 空列表输出为 [], 未知的可选字段输出为 null
func Encode(w io.Writer, records []*model.ClassRecord, format OutType) error {
	if records == nil {
		records = []*model.ClassRecord{}
	}
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(records)
	case JsonL:
		writer := NewJSONLWriter(w)
		for _, rec := range records {
			if err := writer.Write(rec); err != nil {
				return err
			}
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format: %s", format)
}
