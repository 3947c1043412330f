// Package source 提供 layout.TabularSource 的常用实现：内存表格、CSV、JSON 记录与 SQL 查询结果。
package source

import "github.com/ByLCY/folio/layout"

// Grid 是内存中的只读表格。行的单元格数少于列数时，缺失的单元格按空串处理。
type Grid struct {
	headers []string
	rows    [][]string
}

var _ layout.TabularSource = (*Grid)(nil)

// NewGrid 以给定表头与行创建表格；传入的切片会被复制。
func NewGrid(headers []string, rows [][]string) *Grid {
	g := &Grid{headers: append([]string(nil), headers...)}
	for _, row := range rows {
		g.Append(row...)
	}
	return g
}

// Append 追加一行。
func (g *Grid) Append(cells ...string) {
	g.rows = append(g.rows, append([]string(nil), cells...))
}

func (g *Grid) ColumnCount() int { return len(g.headers) }
func (g *Grid) RowCount() int    { return len(g.rows) }

func (g *Grid) HeaderText(col int) string {
	if col < 0 || col >= len(g.headers) {
		return ""
	}
	return g.headers[col]
}

func (g *Grid) CellText(row, col int) string {
	if row < 0 || row >= len(g.rows) {
		return ""
	}
	cells := g.rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// Headers 返回表头的副本。
func (g *Grid) Headers() []string { return append([]string(nil), g.headers...) }

// Select 返回只包含指定列（按名称）的新表格；找不到的列名返回错误。
func (g *Grid) Select(names ...string) (*Grid, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = -1
		for j, h := range g.headers {
			if h == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, &ColumnError{Name: name}
		}
	}
	out := &Grid{headers: append([]string(nil), names...)}
	for r := range g.rows {
		cells := make([]string, len(idx))
		for i, c := range idx {
			cells[i] = g.CellText(r, c)
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// ColumnError 表示引用了数据源中不存在的列。
type ColumnError struct {
	Name string
}

func (e *ColumnError) Error() string { return "数据源中不存在列 " + e.Name }
