package layout

import "fmt"

// paint 把分页结果绘制到缓冲区：每页先调用装饰器，再画上边框、各行文本与分隔线，最后画竖线。
func paint(s *inkBuffer, plan *Plan, style resolvedStyle, decorator PageDecorator) error {
	left := plan.Margin.Left
	right := left + plan.TableWidth
	for i, page := range plan.Pages {
		if i > 0 {
			s.NewPage()
		}
		if decorator != nil {
			info := PageInfo{
				Number: page.Number,
				Width:  plan.PageWidth,
				Height: plan.PageHeight,
				Margin: plan.Margin,
			}
			if err := decorator.PreparePage(s, info); err != nil {
				return fmt.Errorf("第 %d 页装饰失败: %w", page.Number, err)
			}
		}

		s.DrawLine(Line{X1: left, Y1: page.Top, X2: right, Y2: page.Top, Pen: style.border})
		for _, row := range page.Rows {
			font, color := style.contentFont, style.contentColor
			if row.IsHeader {
				font, color = style.headerFont, style.headerColor
			}
			if err := paintRow(s, row, plan.CellMargin.Top, font, color); err != nil {
				return err
			}
			y := row.Y + row.Extent
			s.DrawLine(Line{X1: left, Y1: y, X2: right, Y2: y, Pen: style.border})
		}
		for _, x := range plan.Boundaries {
			s.DrawLine(Line{X1: x, Y1: page.Top, X2: x, Y2: page.Bottom, Pen: style.border})
		}
	}
	return nil
}

// paintRow 绘制一行中所有可见列的文本；超出行高的排版行被裁掉。
func paintRow(s Canvas, row RowLayout, cellTop float64, font Font, color Color) error {
	top := row.Y + cellTop
	for _, cell := range row.Cells {
		lines := cropLines(cell.Lines, row.Height)
		if len(lines) == 0 {
			continue
		}
		tb := TextBox{
			X:      cell.X,
			Y:      top,
			Width:  cell.Width,
			Height: row.Height,
			Font:   font,
			Color:  color,
			Lines:  lines,
		}
		if err := s.DrawText(tb); err != nil {
			return fmt.Errorf("绘制第 %d 行第 %d 列失败: %w", row.Row, cell.Column, err)
		}
	}
	return nil
}

// cropLines 返回完整落在 height 以内的前若干行。
func cropLines(lines []TextLine, height float64) []TextLine {
	const eps = 1e-9
	used := 0.0
	for i, ln := range lines {
		used += ln.GapBefore + ln.Height
		if used > height+eps {
			return lines[:i]
		}
	}
	return lines
}

// inkBuffer 暂存一次渲染的全部绘制调用。整份计划（包括每页的装饰器）绘制成功后才回放到
// 真实 Surface，失败时真实 Surface 上不会留下任何内容。
type inkBuffer struct {
	ops []inkOp
}

// inkOp 是一条绘制调用；newPage 为 true 时其余字段无意义。
type inkOp struct {
	newPage bool
	line    *Line
	text    *TextBox
}

func (b *inkBuffer) DrawLine(ln Line) { b.ops = append(b.ops, inkOp{line: &ln}) }

func (b *inkBuffer) DrawText(tb TextBox) error {
	b.ops = append(b.ops, inkOp{text: &tb})
	return nil
}

func (b *inkBuffer) NewPage() { b.ops = append(b.ops, inkOp{newPage: true}) }

// preflight 用本次渲染的测量面加载缓冲区中出现的每种字体，
// 让字体错误（例如装饰器引用了不存在的字体文件）在落墨之前暴露出来。
func (b *inkBuffer) preflight(ts Typesetter) error {
	seen := make(map[Font]bool)
	for _, op := range b.ops {
		if op.text == nil || seen[op.text.Font] {
			continue
		}
		seen[op.text.Font] = true
		if _, err := ts.LayoutLines("", op.text.Width, op.text.Font); err != nil {
			return fmt.Errorf("加载字体 %q 失败: %w", op.text.Font.Name, err)
		}
	}
	return nil
}

// replay 按记录顺序把绘制调用发送到 s。
func (b *inkBuffer) replay(s Surface) error {
	page := 1
	for _, op := range b.ops {
		switch {
		case op.newPage:
			page++
			if err := s.NewPage(); err != nil {
				return fmt.Errorf("创建第 %d 页失败: %w", page, err)
			}
		case op.line != nil:
			s.DrawLine(*op.line)
		case op.text != nil:
			if err := s.DrawText(*op.text); err != nil {
				return fmt.Errorf("第 %d 页绘制文本失败: %w", page, err)
			}
		}
	}
	return nil
}
