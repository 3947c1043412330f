package layout

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// 页面 100x150，上下留白 15 → 可用高度 120；每行 40。
func breakScenarioPrinter(s Surface) *Printer {
	p := NewPrinter(s)
	p.SetPageMargin(0, 0, 15, 15)
	p.SetCellMargin(0, 0, 0, 0)
	p.SetStyle(Style{
		HeaderFont:  Font{Name: "Body", Size: 10},
		ContentFont: Font{Name: "Body", Size: 40},
	})
	return p
}

func TestPageBreakWithoutHeader(t *testing.T) {
	p := breakScenarioPrinter(newRecordingSurface(100, 150))
	p.SetHeaderPrint(false)
	plan, err := p.Plan(singleColumn(5), []int{1}, nil)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	got := bodyRowsPerPage(plan)
	want := [][]int{{0, 1, 2}, {3, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("行分页错误: got %v want %v", got, want)
	}
	if !eq(plan.Pages[0].Bottom, 135) {
		t.Fatalf("第一页应用满 120: bottom=%g", plan.Pages[0].Bottom)
	}
	for _, pg := range plan.Pages {
		for _, r := range pg.Rows {
			if r.IsHeader {
				t.Fatalf("未开启表头时不应出现表头行")
			}
		}
	}
}

func TestPageBreakRepeatsHeader(t *testing.T) {
	p := breakScenarioPrinter(newRecordingSurface(100, 150))
	plan, err := p.Plan(singleColumn(5), []int{1}, nil)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	got := bodyRowsPerPage(plan)
	// 表头占 10：每页只能再放两行
	want := [][]int{{0, 1}, {2, 3}, {4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("行分页错误: got %v want %v", got, want)
	}
	for i, pg := range plan.Pages {
		if len(pg.Rows) == 0 || !pg.Rows[0].IsHeader {
			t.Fatalf("第 %d 页首行应为表头", i+1)
		}
		if !eq(pg.Rows[0].Y, 15) || !eq(pg.Rows[1].Y, 25) {
			t.Fatalf("第 %d 页表头/首行位置错误: %g %g", i+1, pg.Rows[0].Y, pg.Rows[1].Y)
		}
	}
	if plan.HeaderHeight != 10 {
		t.Fatalf("表头高度 = %g, want 10", plan.HeaderHeight)
	}
}

func TestPageBreakWithoutRepeat(t *testing.T) {
	p := breakScenarioPrinter(newRecordingSurface(100, 150))
	p.SetHeaderRepeat(false)
	plan, err := p.Plan(singleColumn(5), []int{1}, nil)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	want := [][]int{{0, 1}, {2, 3, 4}}
	if got := bodyRowsPerPage(plan); !reflect.DeepEqual(got, want) {
		t.Fatalf("行分页错误: got %v want %v", got, want)
	}
	if plan.Pages[1].Rows[0].IsHeader {
		t.Fatalf("关闭重复表头后第二页不应有表头")
	}
}

// TestPageBreakLaw 对不同高度的行验证：每一行都放得下（或是该页第一行），
// 且每页的下一行放不进上一页。
func TestPageBreakLaw(t *testing.T) {
	g := &gridSource{headers: []string{"A", "B"}}
	for i := 0; i < 60; i++ {
		n := i%7 + 1
		g.rows = append(g.rows, []string{
			strings.TrimSpace(strings.Repeat("abcdefghij ", n)),
			fmt.Sprint(i),
		})
	}
	s := newRecordingSurface(40, 120)
	p := NewPrinter(s)
	p.SetPageMargin(5, 5, 8, 12)
	p.SetCellMargin(1, 1, 2, 3)
	p.SetStyle(Style{ContentFont: Font{Size: 4}, HeaderFont: Font{Size: 6}})
	plan, err := p.Plan(g, []int{1, 1}, nil)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	limit := 120.0 - 12
	next := 0
	for pi, pg := range plan.Pages {
		for _, r := range pg.Rows {
			if r.IsHeader {
				continue
			}
			if r.Row != next {
				t.Fatalf("行顺序错误: got %d want %d", r.Row, next)
			}
			next++
			if r.Y+r.Extent > limit+1e-9 {
				t.Fatalf("第 %d 页的第 %d 行越过下边界: %g", pi+1, r.Row, r.Y+r.Extent)
			}
		}
		if pi+1 < len(plan.Pages) {
			first := plan.Pages[pi+1].BodyRows()[0]
			var nextRow RowLayout
			for _, r := range plan.Pages[pi+1].Rows {
				if r.Row == first {
					nextRow = r
				}
			}
			if pg.Bottom+nextRow.Extent <= limit {
				t.Fatalf("第 %d 行本可以放在第 %d 页", first, pi+1)
			}
		}
	}
	if next != len(g.rows) {
		t.Fatalf("丢失了数据行: %d/%d", next, len(g.rows))
	}
}

// 超过 maxRowHeight 的行被截断而不是拆分到两页。
func TestOversizedRowIsClamped(t *testing.T) {
	g := &gridSource{headers: []string{"A"}, rows: [][]string{
		{strings.TrimSpace(strings.Repeat("word ", 40))},
		{"tail"},
	}}
	s := newRecordingSurface(30, 200)
	p := NewPrinter(s)
	p.SetCellMargin(0, 0, 0, 0)
	p.SetHeaderPrint(false)
	p.SetMaxRowHeight(20)
	p.SetStyle(Style{ContentFont: Font{Size: 5}})
	if err := p.Render(g, []int{1}, nil); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	plan, _ := p.Plan(g, []int{1}, nil)
	if len(plan.Pages) != 1 {
		t.Fatalf("截断的行不应触发换页: %d pages", len(plan.Pages))
	}
	if h := plan.Pages[0].Rows[0].Height; h != 20 {
		t.Fatalf("行高应截断为 20，实际 %g", h)
	}
	first := s.texts[0]
	if len(first.Lines) != 4 {
		t.Fatalf("只应绘制能放下的 4 行，实际 %d", len(first.Lines))
	}
}

// 空表也会绘制上边框、表头与竖线，但不会产生第二页。
func TestEmptySourceSinglePage(t *testing.T) {
	s := newRecordingSurface(100, 100)
	p := NewPrinter(s)
	if err := p.Render(&gridSource{headers: []string{"A", "B"}}, []int{1, 1}, nil); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if s.newPages != 0 {
		t.Fatalf("空表不应换页")
	}
}

func TestPageStateString(t *testing.T) {
	if pageOpen.String() != "open" || pageClosing.String() != "closing" {
		t.Fatalf("unexpected state names")
	}
}
