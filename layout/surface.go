package layout

// TabularSource 是只读的表格数据源。引擎不会修改它，且它必须在一次 Render 调用期间保持有效。
type TabularSource interface {
	ColumnCount() int
	RowCount() int
	HeaderText(col int) string
	CellText(row, col int) string
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 它是离屏的测量面：只计算，不在真实画布上落墨。
type Typesetter interface {
	LayoutLines(content string, width float64, font Font) ([]TextLine, error)
}

// Canvas 是绘制原语的最小集合，坐标以页面左上角为原点（mm）。
type Canvas interface {
	DrawLine(ln Line)
	DrawText(tb TextBox) error
}

// Surface 是输出设备与画布的组合，由调用方持有，引擎只在一次 Render 内借用。
type Surface interface {
	Canvas
	// Ready 在设备不可用（已关闭、尺寸无效等）时返回错误。
	Ready() error
	// PageSize 返回页面宽高（mm）。
	PageSize() (width, height float64)
	// NewPage 结束当前页并开始新的一页。
	NewPage() error
	// NewTypesetter 返回与输出设备度量一致的测量面，每次调用都应返回独立实例。
	NewTypesetter() Typesetter
	// Ambient 返回画布当前的画笔、字体与颜色。
	Ambient() Ambient
}

// PageDecorator 在每页（包括第一页）绘制表格之前被调用，用于绘制页眉页脚。
// 页码等跨页状态由实现方自行维护。
type PageDecorator interface {
	PreparePage(c Canvas, page PageInfo) error
}

// PageDecoratorFunc 将普通函数适配为 PageDecorator。
type PageDecoratorFunc func(c Canvas, page PageInfo) error

// PreparePage 调用 f(c, page)。
func (f PageDecoratorFunc) PreparePage(c Canvas, page PageInfo) error { return f(c, page) }
