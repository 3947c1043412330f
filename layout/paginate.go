package layout

import "github.com/charmbracelet/log"

// pageState 是分页控制器的状态。
type pageState int

const (
	// pageOpen：游标位于上边框/表头之下，可以接收新行。
	pageOpen pageState = iota
	// pageClosing：当前页的竖线区域已确定，等待换页或结束。
	pageClosing
)

func (s pageState) String() string {
	switch s {
	case pageOpen:
		return "open"
	case pageClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// pager 逐页维护纵向游标，决定每一行落在哪一页。
// 游标是页面绝对坐标：新页从上留白处开始。
type pager struct {
	plan   *Plan
	state  pageState
	page   int // 当前页在 plan.Pages 中的下标
	cursor float64
	top    float64 // 表格上边框 y
	limit  float64 // 页高 - 下留白
	cell   Margin
	header *RowLayout // 已测量的表头；不打印表头时为 nil
	repeat bool
	logger *log.Logger
}

// open 开启新的一页：记录上边框位置，并按需放置表头。
func (p *pager) open(withHeader bool) {
	p.plan.Pages = append(p.plan.Pages, PagePlan{
		Number: len(p.plan.Pages) + 1,
		Top:    p.top,
		Bottom: p.top,
	})
	p.page = len(p.plan.Pages) - 1
	p.cursor = p.top
	p.state = pageOpen
	if withHeader && p.header != nil {
		p.commit(*p.header)
	}
}

// close 结束当前页：竖线从上边框延伸到游标处。
func (p *pager) close() {
	p.state = pageClosing
	p.plan.Pages[p.page].Bottom = p.cursor
}

func (p *pager) fits(height float64) bool {
	return p.cursor+height+p.cell.Top+p.cell.Bottom <= p.limit
}

// place 放置一行数据；放不下时先换页（只换一次，新页上仍放不下的行会被裁剪而不是再次换页）。
func (p *pager) place(row RowLayout) {
	if !p.fits(row.Height) {
		from := p.plan.Pages[p.page].Number
		p.close()
		p.open(p.repeat)
		if p.logger != nil {
			p.logger.Debug("page break", "row", row.Row, "from", from, "to", from+1, "rowHeight", row.Height)
		}
	}
	p.commit(row)
}

func (p *pager) commit(row RowLayout) {
	row.Y = p.cursor
	row.Extent = row.Height + p.cell.Top + p.cell.Bottom
	pg := &p.plan.Pages[p.page]
	pg.Rows = append(pg.Rows, row)
	p.cursor += row.Extent
	pg.Bottom = p.cursor
}

// finish 在最后一行之后收尾；不会产生额外的空白页。
func (p *pager) finish() {
	p.close()
}

// paginate 测量表头与每一行并生成完整的分页结果。
func paginate(st *renderState, src TabularSource, headers []string) (*Plan, error) {
	res := &rowResolver{
		ts:        st.ts,
		widths:    st.widths,
		offsets:   st.offsets,
		stretch:   st.stretch,
		margin:    st.cfg.CellMargin,
		maxHeight: st.cfg.MaxRowHeight,
	}
	plan := &Plan{
		PageWidth:    st.pageWidth,
		PageHeight:   st.pageHeight,
		Margin:       st.cfg.PageMargin,
		CellMargin:   st.cfg.CellMargin,
		TableWidth:   st.tableWidth,
		ColumnWidths: st.widths,
		Boundaries:   boundaries(st.cfg.PageMargin.Left, st.widths),
	}
	p := &pager{
		plan:   plan,
		top:    st.cfg.PageMargin.Top,
		limit:  st.pageHeight - st.cfg.PageMargin.Bottom,
		cell:   st.cfg.CellMargin,
		repeat: st.cfg.PrintHeader && st.cfg.RepeatHeader,
		logger: st.cfg.Logger,
	}

	cols := src.ColumnCount()
	if st.cfg.PrintHeader {
		texts := make([]string, cols)
		for i := range texts {
			if len(headers) > 0 {
				texts[i] = headers[i]
			} else {
				texts[i] = src.HeaderText(i)
			}
		}
		h, cells, err := res.resolve(texts, st.style.headerFont)
		if err != nil {
			return nil, err
		}
		p.header = &RowLayout{Row: -1, IsHeader: true, Height: h, Cells: cells}
		plan.HeaderHeight = h
	}

	p.open(true)
	texts := make([]string, cols)
	for row := 0; row < src.RowCount(); row++ {
		for col := range texts {
			texts[col] = src.CellText(row, col)
		}
		h, cells, err := res.resolve(texts, st.style.contentFont)
		if err != nil {
			return nil, err
		}
		p.place(RowLayout{Row: row, Height: h, Cells: cells})
	}
	p.finish()
	return plan, nil
}
