package layout

import (
	"strings"
	"testing"
)

func newTestResolver(widths []float64, stretch []int, max float64) *rowResolver {
	return &rowResolver{
		ts:        stubTypesetter{},
		widths:    widths,
		offsets:   columnOffsets(widths),
		stretch:   stretch,
		maxHeight: max,
	}
}

// TestRowHeightMonotonicAndClamped 验证行高随最长单元格文本单调不减，且不超过 maxRowHeight。
func TestRowHeightMonotonicAndClamped(t *testing.T) {
	r := newTestResolver([]float64{20, 20}, []int{1, 1}, 30)
	font := Font{Size: 5}
	prev := 0.0
	for words := 0; words <= 40; words++ {
		text := strings.TrimSpace(strings.Repeat("aaaa ", words))
		h, _, err := r.resolve([]string{text, "x"}, font)
		if err != nil {
			t.Fatalf("resolve error: %v", err)
		}
		if h < prev {
			t.Fatalf("行高不应减小: words=%d h=%g prev=%g", words, h, prev)
		}
		if h > 30 {
			t.Fatalf("行高超过上限: %g", h)
		}
		prev = h
	}
	if prev != 30 {
		t.Fatalf("长文本应被截断到 30，实际 %g", prev)
	}
}

func TestRowHeightIgnoresHiddenColumns(t *testing.T) {
	r := newTestResolver([]float64{20, 0}, []int{1, 0}, 1000)
	long := strings.Repeat("word ", 50)
	h, cells, err := r.resolve([]string{"short", long}, Font{Size: 5})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if h != 5 {
		t.Fatalf("隐藏列不应影响行高: got %g want 5", h)
	}
	if len(cells) != 1 || cells[0].Column != 0 {
		t.Fatalf("隐藏列不应产生单元格: %+v", cells)
	}
}

func TestRowHeightSubtractsCellMargins(t *testing.T) {
	r := newTestResolver([]float64{14}, []int{1}, 1000)
	r.margin = Margin{Left: 2, Right: 2}
	// 内宽 10：两个 5 字符的词无法放进同一行
	h, cells, err := r.resolve([]string{"abcde fghij"}, Font{Size: 5})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if h != 10 || len(cells[0].Lines) != 2 {
		t.Fatalf("应折成两行: h=%g lines=%+v", h, cells[0].Lines)
	}
	if cells[0].Width != 10 || cells[0].X != 2 {
		t.Fatalf("单元格文本区错误: %+v", cells[0])
	}
}

func TestEmptyCellMeasuresOneLine(t *testing.T) {
	r := newTestResolver([]float64{20}, []int{1}, 1000)
	h, _, err := r.resolve([]string{""}, Font{Size: 6})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if h != 6 {
		t.Fatalf("空单元格应占一行: got %g", h)
	}
}

// 列宽不大于左右内边距时仍然折行，而不是当作不限宽的一行。
func TestNarrowColumnStillWraps(t *testing.T) {
	r := newTestResolver([]float64{3}, []int{1}, 1000)
	r.margin = Margin{Left: 2, Right: 2}
	h, cells, err := r.resolve([]string{"ab cd"}, Font{Size: 5})
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if h != 10 || len(cells[0].Lines) != 2 {
		t.Fatalf("窄列应逐词折行: h=%g lines=%+v", h, cells[0].Lines)
	}
	if cells[0].Width != minInnerWidth {
		t.Fatalf("文本区宽度应为 %g，实际 %g", minInnerWidth, cells[0].Width)
	}
}
