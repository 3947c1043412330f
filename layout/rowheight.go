package layout

import "fmt"

// minInnerWidth 是单元格文本区的最小宽度（mm）。
const minInnerWidth = 0.01

// rowResolver 在落墨之前测量行高，持有本次渲染专属的测量面。
type rowResolver struct {
	ts        Typesetter
	widths    []float64
	offsets   []float64
	stretch   []int
	margin    Margin
	maxHeight float64
}

// resolve 对每个可见列按 列宽-左右边距 折行测量，返回截断到 maxHeight 的最大文本高度与各单元格排版行。
func (r *rowResolver) resolve(texts []string, font Font) (float64, []CellLayout, error) {
	height := 0.0
	cells := make([]CellLayout, 0, len(texts))
	for col, text := range texts {
		if r.stretch[col] == 0 {
			continue
		}
		inner := r.widths[col] - r.margin.Left - r.margin.Right
		// 列宽不大于左右内边距时仍按极窄的正宽度折行（测量面把 0 视为不限宽）
		inner = max(inner, minInnerWidth)
		lines, err := r.ts.LayoutLines(text, inner, font)
		if err != nil {
			return 0, nil, fmt.Errorf("测量第 %d 列文本失败: %w", col, err)
		}
		if h := linesHeight(lines); h > height {
			height = h
		}
		cells = append(cells, CellLayout{
			Column: col,
			X:      r.offsets[col] + r.margin.Left,
			Width:  inner,
			Lines:  lines,
		})
	}
	if height > r.maxHeight {
		height = r.maxHeight
	}
	return height, cells, nil
}
