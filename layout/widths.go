package layout

import "math"

// ColumnWidths 按拉伸系数把可打印宽度分配给各列：w[i] = printableWidth * stretch[i] / Σstretch。
// 系数为 0 的列宽度为 0（隐藏列仍占一个槽位）。
func ColumnWidths(stretch []int, printableWidth float64) ([]float64, error) {
	if printableWidth <= 0 || math.IsNaN(printableWidth) || math.IsInf(printableWidth, 0) {
		return nil, invalidLayout("页边距大于可打印区域（可用宽度 %g）", printableWidth)
	}
	total := 0
	for i, s := range stretch {
		if s < 0 {
			return nil, invalidLayout("第 %d 列的拉伸系数为负数（%d）", i, s)
		}
		total += s
	}
	if total <= 0 {
		return nil, invalidLayout("没有可打印的列")
	}
	widths := make([]float64, len(stretch))
	for i, s := range stretch {
		widths[i] = printableWidth * float64(s) / float64(total)
	}
	return widths, nil
}

// columnOffsets 返回各列左边界相对表格左侧的偏移（累加列宽）。
func columnOffsets(widths []float64) []float64 {
	offsets := make([]float64, len(widths))
	x := 0.0
	for i, w := range widths {
		offsets[i] = x
		x += w
	}
	return offsets
}

// boundaries 返回需要绘制竖线的 x 坐标，包含最左与最右边框；宽度为 0 的列不会产生重复竖线。
func boundaries(left float64, widths []float64) []float64 {
	out := []float64{left}
	x := left
	for _, w := range widths {
		if w <= 0 {
			continue
		}
		x += w
		out = append(out, x)
	}
	return out
}
