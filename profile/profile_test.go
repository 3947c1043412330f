package profile

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/source"
)

const invoiceProfile = `
profile Invoices v1 {
  meta {
    title: "Open invoices"
    author: "Accounting"
  }

  page A4 landscape margin 10mm 12mm {
    cell-margin: 1.5mm
    max-row-height: 60mm
    repeat-header: false
  }

  style {
    border 0.3mm #333333
    header-font "builtin:gobold" size 10pt color #000
    content-font size 9pt line-height 1.3x
  }

  footer {
    title: "Invoices ${period}"
    locale: "de"
    start: 3
    font size 8pt color #666666
  }

  columns {
    column 3 {
      title: "Customer"
      field: customer
    }
    column 1 { title: "Total"; field: total }
    column 0 { field: id }
  }
}
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLoadInvoiceProfile(t *testing.T) {
	p, err := Parse(strings.NewReader(invoiceProfile))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Name != "Invoices" || p.Title != "Open invoices" || p.Author != "Accounting" {
		t.Fatalf("meta 解析错误: %+v", p)
	}
	if p.PageWidth != 297 || p.PageHeight != 210 {
		t.Fatalf("横向 A4 尺寸错误: %gx%g", p.PageWidth, p.PageHeight)
	}
	wantMargin := layout.Margin{Top: 10, Right: 12, Bottom: 10, Left: 12}
	if p.Config.PageMargin != wantMargin {
		t.Fatalf("页边距错误: %+v", p.Config.PageMargin)
	}
	if p.Config.CellMargin != (layout.Margin{Top: 1.5, Right: 1.5, Bottom: 1.5, Left: 1.5}) {
		t.Fatalf("单元格边距错误: %+v", p.Config.CellMargin)
	}
	if p.Config.MaxRowHeight != 60 || !p.Config.PrintHeader || p.Config.RepeatHeader {
		t.Fatalf("表头/行高设置错误: %+v", p.Config)
	}

	st := p.Config.Style
	if st.Border == nil || st.Border.Width != 0.3 || st.Border.Color != (layout.Color{R: 0x33, G: 0x33, B: 0x33}) {
		t.Fatalf("边框错误: %+v", st.Border)
	}
	if st.HeaderFont.Src != "builtin:gobold" || !near(st.HeaderFont.Size, 10*layout.PtToMm) {
		t.Fatalf("表头字体错误: %+v", st.HeaderFont)
	}
	if st.HeaderColor == nil || *st.HeaderColor != (layout.Color{}) {
		t.Fatalf("表头颜色错误: %+v", st.HeaderColor)
	}
	if !near(st.ContentFont.LineHeight, 9*layout.PtToMm*1.3) || st.ContentColor != nil {
		t.Fatalf("内容字体错误: %+v %+v", st.ContentFont, st.ContentColor)
	}

	if p.Footer == nil || p.Footer.Locale != "de" || p.Footer.Start != 3 || !strings.Contains(p.Footer.Title, "${period}") {
		t.Fatalf("footer 错误: %+v", p.Footer)
	}
	if p.Footer.Color == nil || p.Footer.Color.R != 0x66 {
		t.Fatalf("footer 颜色错误: %+v", p.Footer.Color)
	}

	g := source.NewGrid([]string{"id", "customer", "total"}, [][]string{{"7", "ACME", "12"}})
	if diff := cmp.Diff([]int{3, 1, 0}, p.Stretch(g)); diff != "" {
		t.Fatalf("拉伸系数错误:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Customer", "Total", "id"}, p.Headers()); diff != "" {
		t.Fatalf("表头错误:\n%s", diff)
	}
	bound, err := p.Bind(g)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if bound.CellText(0, 0) != "ACME" || bound.CellText(0, 2) != "7" {
		t.Fatalf("列绑定顺序错误: %v", bound.Headers())
	}
}

func TestDefaultProfileUsesSourceColumns(t *testing.T) {
	p := Default()
	g := source.NewGrid([]string{"a", "b"}, nil)
	if diff := cmp.Diff([]int{1, 1}, p.Stretch(g)); diff != "" {
		t.Fatalf("默认拉伸系数错误:\n%s", diff)
	}
	if p.Headers() != nil {
		t.Fatalf("默认配置不应覆盖表头")
	}
	if bound, _ := p.Bind(g); bound != g {
		t.Fatalf("没有列定义时应原样返回")
	}
	if !p.Config.PrintHeader || !p.Config.RepeatHeader || p.Config.MaxRowHeight != layout.DefaultMaxRowHeight {
		t.Fatalf("默认值错误: %+v", p.Config)
	}
}

func TestCustomPageAndMarginForms(t *testing.T) {
	p, err := Parse(strings.NewReader("profile P v1 {\n  page custom 100mm 6in {\n    margin 1mm 2mm 3mm\n    cell-margin 0 1mm\n  }\n}\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.PageWidth != 100 || !near(p.PageHeight, 152.4) {
		t.Fatalf("自定义纸张错误: %gx%g", p.PageWidth, p.PageHeight)
	}
	if p.Config.PageMargin != (layout.Margin{Top: 1, Right: 2, Bottom: 3, Left: 2}) {
		t.Fatalf("三值边距错误: %+v", p.Config.PageMargin)
	}
	if p.Config.CellMargin != (layout.Margin{Top: 0, Right: 1, Bottom: 0, Left: 1}) {
		t.Fatalf("两值边距错误: %+v", p.Config.CellMargin)
	}
}

func TestProfileErrors(t *testing.T) {
	cases := map[string]string{
		"paper":   "profile P v1 {\n  page B9 { }\n}\n",
		"stretch": "profile P v1 {\n  columns {\n    column abc { title: \"x\" }\n  }\n}\n",
		"bool":    "profile P v1 {\n  page A4 {\n    print-header: maybe\n  }\n}\n",
		"style":   "profile P v1 {\n  style {\n    shadow 1mm\n  }\n}\n",
		"font":    "profile P v1 {\n  style {\n    content-font size big\n  }\n}\n",
		"syntax":  "profile P {\n}\n",
	}
	for name, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
