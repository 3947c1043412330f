package layout

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// stubTypesetter 是一个确定性的测量实现：每个字符宽 1mm，行高等于字号，按空格贪心换行。
// 文本为 "boom" 或字体名为 "missing" 时返回 errBoom。
// 仅用于测试，避免引入 renderer 造成循环依赖。
type stubTypesetter struct{}

var errBoom = errors.New("boom")

func (stubTypesetter) LayoutLines(content string, width float64, font Font) ([]TextLine, error) {
	if content == "boom" || font.Name == "missing" {
		return nil, errBoom
	}
	h := font.Size
	if h <= 0 {
		h = 4
	}
	limit := int(width)
	if width <= 0 {
		limit = 1 << 30
	}
	if limit < 1 {
		limit = 1
	}
	var lines []TextLine
	emit := func(s string) {
		lines = append(lines, TextLine{Content: s, Width: float64(utf8.RuneCountInString(s)), Height: h})
	}
	for _, para := range strings.Split(content, "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			switch {
			case cur == "":
				cur = word
			case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= limit:
				cur += " " + word
			default:
				emit(cur)
				cur = word
			}
		}
		emit(cur)
	}
	return lines, nil
}

// recordingSurface 记录所有绘制调用，便于断言“未绘制”与绘制顺序。
type recordingSurface struct {
	width, height float64
	notReady      error
	ops           []string
	lines         []Line
	texts         []TextBox
	newPages      int
	typesetters   int
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{width: w, height: h}
}

func (r *recordingSurface) DrawLine(ln Line) {
	r.ops = append(r.ops, "line")
	r.lines = append(r.lines, ln)
}

func (r *recordingSurface) DrawText(tb TextBox) error {
	parts := make([]string, 0, len(tb.Lines))
	for _, ln := range tb.Lines {
		parts = append(parts, ln.Content)
	}
	r.ops = append(r.ops, "text:"+strings.Join(parts, "|"))
	r.texts = append(r.texts, tb)
	return nil
}

func (r *recordingSurface) Ready() error { return r.notReady }

func (r *recordingSurface) PageSize() (float64, float64) { return r.width, r.height }

func (r *recordingSurface) NewPage() error {
	r.newPages++
	r.ops = append(r.ops, "newpage")
	return nil
}

func (r *recordingSurface) NewTypesetter() Typesetter {
	r.typesetters++
	return stubTypesetter{}
}

func (r *recordingSurface) Ambient() Ambient {
	return Ambient{
		Pen:   Pen{Width: 0.2},
		Font:  Font{Name: "Body", Size: 4},
		Color: Color{R: 30, G: 30, B: 30},
	}
}

// gridSource 是内存中的表格数据源。
type gridSource struct {
	headers []string
	rows    [][]string
}

func (g *gridSource) ColumnCount() int { return len(g.headers) }
func (g *gridSource) RowCount() int    { return len(g.rows) }

func (g *gridSource) HeaderText(col int) string { return g.headers[col] }

func (g *gridSource) CellText(row, col int) string {
	if col >= len(g.rows[row]) {
		return ""
	}
	return g.rows[row][col]
}

func singleColumn(n int) *gridSource {
	g := &gridSource{headers: []string{"H"}}
	for i := 0; i < n; i++ {
		g.rows = append(g.rows, []string{fmt.Sprintf("r%d", i)})
	}
	return g
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func eq(a, b float64) bool { return abs(a-b) < 1e-6 }

// bodyRowsPerPage 把 Plan 转成每页的数据行号列表。
func bodyRowsPerPage(plan *Plan) [][]int {
	out := make([][]int, len(plan.Pages))
	for i, p := range plan.Pages {
		out[i] = p.BodyRows()
	}
	return out
}
