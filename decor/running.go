// Package decor 提供常用的页面装饰器。
package decor

import (
	"fmt"
	"maps"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/layout"
)

// pageKey 是页码文案的消息键，同时也是英文格式。
const pageKey = "Page %d"

// DefaultInset 是页眉页脚文字离纸张边缘的距离（mm）。
const DefaultInset = 3.5

func init() {
	message.SetString(language.German, pageKey, "Seite %d")
	message.SetString(language.Chinese, pageKey, "第 %d 页")
}

// Running 在每页左上角绘制标题、在左下角绘制页码。
// 页码计数器属于装饰器本身，多次 Render 共用同一个 Running 时页码会连续递增。
type Running struct {
	// Title 支持 ${path} 插值，数据来自 Data 以及当前页码 ${page}。
	Title string
	Data  map[string]any
	// Label 是页码格式（含一个 %d），为空时使用 Locale 对应的默认文案。
	Label string
	Font  layout.Font
	Color layout.Color
	Inset float64

	printer *message.Printer

	mu   sync.Mutex
	next int
}

var _ layout.PageDecorator = (*Running)(nil)

// NewRunning 创建从 start 开始计数的装饰器。
func NewRunning(title string, locale language.Tag, start int) *Running {
	return &Running{
		Title:   title,
		Inset:   DefaultInset,
		printer: message.NewPrinter(locale),
		next:    start,
	}
}

// ParseLocale 解析 BCP 47 语言标签，空串表示英文。
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.English, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("无法解析语言 %q: %w", s, err)
	}
	return tag, nil
}

// PreparePage 绘制当前页的标题与页码，然后推进计数器。
func (r *Running) PreparePage(c layout.Canvas, page layout.PageInfo) error {
	r.mu.Lock()
	n := r.next
	r.next++
	r.mu.Unlock()

	lineH := r.lineHeight()
	if r.Title != "" {
		title := binding.Interpolate(r.Title, r.data(n, page))
		if err := c.DrawText(r.box(r.Inset, r.Inset, page.Width, title, lineH)); err != nil {
			return fmt.Errorf("绘制页眉失败: %w", err)
		}
	}
	label := r.label(n)
	y := page.Height - r.Inset - lineH
	if err := c.DrawText(r.box(r.Inset, y, page.Width, label, lineH)); err != nil {
		return fmt.Errorf("绘制页码失败: %w", err)
	}
	return nil
}

// Next 返回下一页将要使用的页码。
func (r *Running) Next() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// Reset 把计数器重置为 start。
func (r *Running) Reset(start int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = start
}

func (r *Running) label(n int) string {
	p := r.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	if r.Label != "" {
		return p.Sprintf(r.Label, n)
	}
	return p.Sprintf(pageKey, n)
}

func (r *Running) data(n int, page layout.PageInfo) map[string]any {
	out := make(map[string]any, len(r.Data)+2)
	maps.Copy(out, r.Data)
	out["page"] = n
	out["sheet"] = page.Number
	return out
}

func (r *Running) lineHeight() float64 {
	if r.Font.LineHeight > 0 {
		return r.Font.LineHeight
	}
	if r.Font.Size > 0 {
		return r.Font.Size * 1.2
	}
	return 10 * layout.PtToMm * 1.2
}

func (r *Running) box(x, y, pageWidth float64, text string, lineH float64) layout.TextBox {
	return layout.TextBox{
		X:      x,
		Y:      y,
		Width:  pageWidth - 2*x,
		Height: lineH,
		Font:   r.Font,
		Color:  r.Color,
		Lines:  []layout.TextLine{{Content: text, Height: lineH}},
	}
}
