package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ByLCY/folio/binding"
)

// Column 描述从一条记录中取值的方式：Path 使用 a.b[0] 形式的数据路径。
type Column struct {
	Title string
	Path  string
}

// ReadJSON 读取 JSON 对象数组。columns 为空时取第一条记录的全部顶层字段（按字段名排序）。
func ReadJSON(r io.Reader, columns []Column) (*Grid, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var records []any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	if len(columns) == 0 {
		if len(records) == 0 {
			return nil, errors.New("JSON 记录为空且未指定列")
		}
		first, ok := records[0].(map[string]any)
		if !ok {
			return nil, errors.New("JSON 记录必须是对象")
		}
		keys := make([]string, 0, len(first))
		for k := range first {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			columns = append(columns, Column{Title: k, Path: k})
		}
	}

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Title
		if headers[i] == "" {
			headers[i] = c.Path
		}
	}
	g := NewGrid(headers, nil)
	for _, rec := range records {
		cells := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := binding.Lookup(rec, c.Path); ok {
				cells[i] = binding.Format(v)
			}
		}
		g.Append(cells...)
	}
	return g, nil
}

// ParseJSON 是 ReadJSON 的字节切片版本。
func ParseJSON(data []byte, columns []Column) (*Grid, error) {
	return ReadJSON(bytes.NewReader(data), columns)
}
