package canvasrenderer

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

const (
	defaultBorderWidth = 0.2
	defaultFontSizePt  = 10.0
	// 位图输出的分辨率（点/毫米，约 200dpi）。
	pngResolution = 8.0
)

// ErrFinished 表示设备已经 Finish，不能再绘制。
var ErrFinished = errors.New("canvas 设备已结束")

func init() {
	renderer.Register("canvas", func(opts renderer.Options) (renderer.Renderer, error) {
		return New(opts)
	})
}

// Renderer 在 github.com/tdewolff/canvas 上实现 layout.Surface：每页一个 canvas，Finish 时统一写出。
type Renderer struct {
	opts   renderer.Options
	format string

	pages []*canvas.Canvas
	ctx   *canvas.Context

	done bool

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*typesetter)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// New 创建第一页已就绪的 canvas 设备。Format 支持 pdf（默认）、svg、png。
func New(opts renderer.Options) (*Renderer, error) {
	format := strings.ToLower(opts.Format)
	switch format {
	case "":
		format = "pdf"
	case "pdf", "svg", "png":
	default:
		return nil, fmt.Errorf("canvas 后端不支持输出格式 %q", opts.Format)
	}
	r := &Renderer{
		opts:         opts,
		format:       format,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	r.addPage()
	return r, nil
}

func (r *Renderer) addPage() {
	c := canvas.New(r.opts.PageWidth, r.opts.PageHeight)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	r.pages = append(r.pages, c)
	r.ctx = ctx
}

// Ready 在设备已结束或页面尺寸无效时返回错误。
func (r *Renderer) Ready() error {
	if r.done {
		return ErrFinished
	}
	if r.opts.PageWidth <= 0 || r.opts.PageHeight <= 0 {
		return fmt.Errorf("页面尺寸无效: %gx%g", r.opts.PageWidth, r.opts.PageHeight)
	}
	return nil
}

func (r *Renderer) PageSize() (float64, float64) { return r.opts.PageWidth, r.opts.PageHeight }

// PageCount 返回已创建的页数。
func (r *Renderer) PageCount() int { return len(r.pages) }

func (r *Renderer) NewPage() error {
	if r.done {
		return ErrFinished
	}
	r.addPage()
	return nil
}

// Ambient 返回默认画笔（0.2mm 黑线）、默认字体（内置 goregular 10pt）与深灰文字色。
func (r *Renderer) Ambient() layout.Ambient {
	return layout.Ambient{
		Pen: layout.Pen{Width: defaultBorderWidth},
		Font: layout.Font{
			Name: "Body",
			Src:  "builtin:" + fonts.Default,
			Size: defaultFontSizePt * layout.PtToMm,
		},
		Color: layout.Color{R: 30, G: 30, B: 30},
	}
}

// NewTypesetter 返回带独立测量缓存的排版器，字体族与绘制共用。
func (r *Renderer) NewTypesetter() layout.Typesetter {
	return newTypesetter(r, measureCacheSize)
}

// DrawLine 绘制直线（毫米单位）。
func (r *Renderer) DrawLine(ln layout.Line) {
	if r.done {
		return
	}
	w := ln.Pen.Width
	if w <= 0 {
		w = defaultBorderWidth
	}
	r.ctx.SetStrokeColor(colorFromLayout(ln.Pen.Color))
	r.ctx.SetStrokeWidth(w)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
	r.ctx.DrawPath(ln.X1, ln.Y1, p)
}

// DrawText 按行绘制左对齐文本，行内容由排版器预先给出。
func (r *Renderer) DrawText(tb layout.TextBox) error {
	if r.done {
		return ErrFinished
	}
	// TextBox 的坐标/字号均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(tb.Font, toPt(r.fontSize(tb.Font)), tb.Color)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	cursorY := tb.Y
	for _, line := range tb.Lines {
		cursorY += line.GapBefore
		if line.Content != "" {
			textLine := canvas.NewTextLine(face, line.Content, canvas.Left)
			// 基线位置：行顶部加上字体上升部
			r.ctx.DrawText(tb.X, cursorY+metrics.Ascent, textLine)
		}
		h := line.Height
		if h <= 0 {
			h = metrics.LineHeight
		}
		cursorY += h
	}
	return nil
}

// Finish 写出全部页面：pdf 为多页文档；svg/png 只能写出单页，多页请使用 WritePage。
func (r *Renderer) Finish(w io.Writer) error {
	if r.done {
		return ErrFinished
	}
	r.done = true
	if r.format != "pdf" {
		if len(r.pages) > 1 {
			return fmt.Errorf("%s 输出共有 %d 页，请逐页调用 WritePage", r.format, len(r.pages))
		}
		return r.WritePage(0, w)
	}

	writer := pdf.New(w, r.opts.PageWidth, r.opts.PageHeight, nil)
	writer.SetInfo(r.opts.Title, "", "", r.opts.Author, r.opts.Creator)
	for i, c := range r.pages {
		if i > 0 {
			writer.NewPage(r.opts.PageWidth, r.opts.PageHeight)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// WritePage 以设备的格式写出第 i 页（从 0 开始）。
func (r *Renderer) WritePage(i int, w io.Writer) error {
	if i < 0 || i >= len(r.pages) {
		return fmt.Errorf("页码越界: %d/%d", i+1, len(r.pages))
	}
	var write canvas.Writer
	switch r.format {
	case "svg":
		write = renderers.SVG()
	case "png":
		write = renderers.PNG(canvas.DPMM(pngResolution))
	default:
		write = renderers.PDF()
	}
	if err := write(w, r.pages[i]); err != nil {
		return fmt.Errorf("写入第 %d 页失败: %w", i+1, err)
	}
	return nil
}

func (r *Renderer) fontSize(f layout.Font) float64 {
	if f.Size > 0 {
		return f.Size
	}
	return defaultFontSizePt * layout.PtToMm
}

func (r *Renderer) fontFace(font layout.Font, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	name := font.Name
	if name == "" {
		name = "Body"
	}
	family := canvas.NewFontFamily(name)
	data, err := fonts.Resolve(font.Src, font.Style, r.opts.BaseDir)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

func maxWidth(width float64) float64 {
	if width <= 0 {
		return math.MaxFloat64
	}
	return width
}
