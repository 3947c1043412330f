package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ByLCY/folio/binding"
)

// FromRows 把查询结果全部读入内存，列名作为表头。rows 会被关闭。
// 打印需要在排版前知道行数并多次访问单元格，所以不能直接流式读取。
func FromRows(rows *sql.Rows) (*Grid, error) {
	defer rows.Close()
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("读取列名失败: %w", err)
	}
	g := NewGrid(names, nil)
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("读取第 %d 行失败: %w", g.RowCount()+1, err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = binding.Format(v)
		}
		g.Append(cells...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历查询结果失败: %w", err)
	}
	return g, nil
}

// Query 执行查询并返回结果表格。
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (*Grid, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("执行查询失败: %w", err)
	}
	return FromRows(rows)
}
