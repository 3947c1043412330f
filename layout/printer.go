package layout

import (
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// Printer 把 TabularSource 排版成带边框的表格并输出到 Surface，可跨越多页。
// 同一个 Printer 不可重入：Render/Plan 在内部串行执行。
type Printer struct {
	surface Surface
	cfg     Config

	mu      sync.Mutex
	lastErr string
}

// renderState 是单次渲染的内部状态，每次调用重新创建，结束后丢弃。
type renderState struct {
	cfg        Config
	style      resolvedStyle
	ts         Typesetter
	stretch    []int
	widths     []float64
	offsets    []float64 // 各列左边界的页面绝对 x
	pageWidth  float64
	pageHeight float64
	tableWidth float64
}

// NewPrinter 创建绑定到 s 的打印器，未指定的选项使用 DefaultConfig。
func NewPrinter(s Surface, opts ...Option) *Printer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Printer{surface: s, cfg: cfg}
}

// Config 返回当前配置的副本。
func (p *Printer) Config() Config { return p.cfg }

// SetCellMargin 设置单元格内边距。
func (p *Printer) SetCellMargin(left, right, top, bottom float64) {
	p.cfg.CellMargin = Margin{Top: top, Right: right, Bottom: bottom, Left: left}
}

// SetPageMargin 设置页面四周留白。
func (p *Printer) SetPageMargin(left, right, top, bottom float64) {
	p.cfg.PageMargin = Margin{Top: top, Right: right, Bottom: bottom, Left: left}
}

// SetMaxRowHeight 设置单行文本区的最大高度，超出部分被裁掉。
func (p *Printer) SetMaxRowHeight(h float64) { p.cfg.MaxRowHeight = h }

// SetHeaderPrint 设置是否打印表头。
func (p *Printer) SetHeaderPrint(v bool) { p.cfg.PrintHeader = v }

// SetHeaderRepeat 设置换页后是否重复表头；不打印表头时无效。
func (p *Printer) SetHeaderRepeat(v bool) { p.cfg.RepeatHeader = v }

// SetStyle 设置边框与表头、内容的字体颜色。
func (p *Printer) SetStyle(s Style) { p.cfg.Style = s }

// SetPageDecorator 设置页面装饰器，nil 表示不装饰。
func (p *Printer) SetPageDecorator(d PageDecorator) { p.cfg.Decorator = d }

// SetConfig 整体替换配置。
func (p *Printer) SetConfig(cfg Config) { p.cfg = cfg }

// SetLogger 设置调试日志输出，nil 表示不输出。
func (p *Printer) SetLogger(l *log.Logger) { p.cfg.Logger = l }

// LastError 返回最近一次调用的错误信息；成功时为空字符串。
func (p *Printer) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Plan 只做校验与排版计算，不在 Surface 上绘制任何内容。
func (p *Printer) Plan(src TabularSource, stretch []int, headers []string) (*Plan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, _, err := p.plan(src, stretch, headers)
	p.record(err)
	return plan, err
}

// Render 校验输入、计算分页并绘制整张表格。
// 校验或测量失败时不会产生任何绘制；headers 为空时使用数据源自带的表头。
func (p *Printer) Render(src TabularSource, stretch []int, headers []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	plan, st, err := p.plan(src, stretch, headers)
	if err == nil {
		err = p.ink(plan, st)
	}
	if err == nil && p.cfg.Logger != nil {
		p.cfg.Logger.Debug("table rendered", "pages", len(plan.Pages), "rows", src.RowCount(), "columns", len(stretch))
	}
	p.record(err)
	return err
}

// ink 先在缓冲区完成整份绘制并检查字体，全部成功后才写到真实 Surface。
func (p *Printer) ink(plan *Plan, st *renderState) error {
	buf := &inkBuffer{}
	if err := paint(buf, plan, st.style, st.cfg.Decorator); err != nil {
		return err
	}
	if err := buf.preflight(st.ts); err != nil {
		return err
	}
	return buf.replay(p.surface)
}

func (p *Printer) record(err error) {
	if err != nil {
		p.lastErr = err.Error()
		if p.cfg.Logger != nil {
			p.cfg.Logger.Error("table print failed", "err", err)
		}
		return
	}
	p.lastErr = ""
}

func (p *Printer) plan(src TabularSource, stretch []int, headers []string) (*Plan, *renderState, error) {
	st, err := p.validate(src, stretch, headers)
	if err != nil {
		return nil, nil, err
	}
	plan, err := paginate(st, src, headers)
	if err != nil {
		return nil, nil, err
	}
	return plan, st, nil
}

// validate 在任何绘制之前检查列数、设备状态与页面几何，并计算列宽。
func (p *Printer) validate(src TabularSource, stretch []int, headers []string) (*renderState, error) {
	if src == nil {
		return nil, invalidLayout("数据源为空")
	}
	cols := src.ColumnCount()
	if len(stretch) != cols {
		return nil, invalidLayout("数据源与 columnStretch 的列数不一致（%d != %d）", cols, len(stretch))
	}
	if len(headers) != 0 && len(headers) != cols {
		return nil, invalidLayout("数据源与表头的列数不一致（%d != %d）", cols, len(headers))
	}
	if p.surface == nil {
		return nil, deviceNotReady(fmt.Errorf("surface 为空"))
	}
	if err := p.surface.Ready(); err != nil {
		return nil, deviceNotReady(err)
	}

	cfg := p.cfg
	if err := checkMargins("单元格边距", cfg.CellMargin); err != nil {
		return nil, err
	}
	if err := checkMargins("页边距", cfg.PageMargin); err != nil {
		return nil, err
	}
	if !finite(cfg.MaxRowHeight) || cfg.MaxRowHeight <= 0 {
		return nil, invalidLayout("最大行高必须为正数（%g）", cfg.MaxRowHeight)
	}

	pageW, pageH := p.surface.PageSize()
	tableW := pageW - cfg.PageMargin.Left - cfg.PageMargin.Right
	tableH := pageH - cfg.PageMargin.Top - cfg.PageMargin.Bottom
	if !finite(pageW) || !finite(pageH) || tableW <= 0 || tableH <= 0 {
		return nil, invalidLayout("页边距大于可打印区域（%gx%g）", tableW, tableH)
	}
	widths, err := ColumnWidths(stretch, tableW)
	if err != nil {
		return nil, err
	}
	offsets := columnOffsets(widths)
	for i := range offsets {
		offsets[i] += cfg.PageMargin.Left
	}

	ts := p.surface.NewTypesetter()
	if ts == nil {
		return nil, deviceNotReady(fmt.Errorf("无法创建测量面"))
	}
	return &renderState{
		cfg:        cfg,
		style:      cfg.Style.resolved(p.surface.Ambient()),
		ts:         ts,
		stretch:    append([]int(nil), stretch...),
		widths:     widths,
		offsets:    offsets,
		pageWidth:  pageW,
		pageHeight: pageH,
		tableWidth: tableW,
	}, nil
}

func checkMargins(name string, m Margin) error {
	for _, v := range []float64{m.Top, m.Right, m.Bottom, m.Left} {
		if !finite(v) || v < 0 {
			return invalidLayout("%s必须是非负的有限值（%+v）", name, m)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
