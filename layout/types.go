package layout

// 该文件定义表格排版结果与绘制原语，供分页计算、渲染与调试 JSON 共用。

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Font 描述一个字体面：src 可以是文件路径、builtin:<name> 或 embed:<name>。
// Size 与 LineHeight 均为毫米；LineHeight <= 0 时由排版后端按字体度量决定。
type Font struct {
	Name       string  `json:"name,omitempty"`
	Src        string  `json:"src,omitempty"`
	Style      string  `json:"style,omitempty"`
	Size       float64 `json:"size,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`
}

// IsZero 报告字体是否未设置（此时使用画布的默认字体）。
func (f Font) IsZero() bool {
	return f.Name == "" && f.Src == "" && f.Size == 0
}

// Pen 描述线条颜色与线宽（mm）。
type Pen struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Style 是表格的画笔、字体与颜色设置。
// 零值字段在渲染时由 Surface.Ambient() 补齐。
type Style struct {
	Border       *Pen   `json:"border,omitempty"`
	HeaderFont   Font   `json:"headerFont"`
	HeaderColor  *Color `json:"headerColor,omitempty"`
	ContentFont  Font   `json:"contentFont"`
	ContentColor *Color `json:"contentColor,omitempty"`
}

// Ambient 是画布当前的画笔、字体与颜色，作为 Style 的默认值来源。
type Ambient struct {
	Pen   Pen   `json:"pen"`
	Font  Font  `json:"font"`
	Color Color `json:"color"`
}

// resolved 返回以 ambient 补齐后的样式。
func (s Style) resolved(a Ambient) resolvedStyle {
	out := resolvedStyle{
		border:       a.Pen,
		headerFont:   s.HeaderFont,
		headerColor:  a.Color,
		contentFont:  s.ContentFont,
		contentColor: a.Color,
	}
	if s.Border != nil {
		out.border = *s.Border
	}
	if out.headerFont.IsZero() {
		out.headerFont = a.Font
	}
	if out.contentFont.IsZero() {
		out.contentFont = a.Font
	}
	if s.HeaderColor != nil {
		out.headerColor = *s.HeaderColor
	}
	if s.ContentColor != nil {
		out.contentColor = *s.ContentColor
	}
	return out
}

type resolvedStyle struct {
	border       Pen
	headerFont   Font
	headerColor  Color
	contentFont  Font
	contentColor Color
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// linesHeight 返回 Σ(GapBefore + Height)。
func linesHeight(lines []TextLine) float64 {
	total := 0.0
	for _, ln := range lines {
		total += ln.GapBefore + ln.Height
	}
	return total
}

// TextBox 表示一个已经排好坐标的左对齐文本块。
// Height 为可见区域高度，超出部分的行不会被绘制。
type TextBox struct {
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Font   Font       `json:"font"`
	Color  Color      `json:"color"`
	Lines  []TextLine `json:"lines"`
}

// Line 表示一条线段（mm，页面坐标，原点在左上角）。
type Line struct {
	X1  float64 `json:"x1"`
	Y1  float64 `json:"y1"`
	X2  float64 `json:"x2"`
	Y2  float64 `json:"y2"`
	Pen Pen     `json:"pen"`
}

// PageInfo 传给页面装饰器，描述即将绘制的页面。
type PageInfo struct {
	Number int     `json:"number"` // 本次渲染内的页序号，从 1 开始
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// Plan 是一次渲染的完整几何结果：列宽、每页放置的行与竖线范围。
type Plan struct {
	PageWidth    float64    `json:"pageWidth"`
	PageHeight   float64    `json:"pageHeight"`
	Margin       Margin     `json:"margin"`
	CellMargin   Margin     `json:"cellMargin"`
	TableWidth   float64    `json:"tableWidth"`
	ColumnWidths []float64  `json:"columnWidths"`
	Boundaries   []float64  `json:"boundaries"` // 竖线的 x 坐标（去重后）
	HeaderHeight float64    `json:"headerHeight"`
	Pages        []PagePlan `json:"pages"`
}

// PagePlan 记录单页上的表格内容。
type PagePlan struct {
	Number int         `json:"number"`
	Top    float64     `json:"top"`    // 表格上边框的 y
	Bottom float64     `json:"bottom"` // 竖线终点（最后一行下边框）的 y
	Rows   []RowLayout `json:"rows"`
}

// BodyRows 返回本页数据行（不含表头）的源行号。
func (p PagePlan) BodyRows() []int {
	var out []int
	for _, r := range p.Rows {
		if !r.IsHeader {
			out = append(out, r.Row)
		}
	}
	return out
}

// RowLayout 是一行（表头或数据行）的放置结果。
// Height 为文本区高度（已按 MaxRowHeight 截断），行占用的总高度还需加上上下单元格边距。
type RowLayout struct {
	Row      int          `json:"row"` // 表头为 -1
	IsHeader bool         `json:"isHeader"`
	Y        float64      `json:"y"`
	Height   float64      `json:"height"`
	Extent   float64      `json:"extent"` // Height + 上下单元格边距
	Cells    []CellLayout `json:"cells"`
}

// CellLayout 记录单元格文本的排版行；隐藏列不会出现在 Cells 中。
type CellLayout struct {
	Column int        `json:"column"`
	X      float64    `json:"x"`
	Width  float64    `json:"width"`
	Lines  []TextLine `json:"lines"`
}
