package fpdfrenderer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

const (
	defaultBorderWidth = 0.2
	defaultFontSizePt  = 10.0
	// lineFactor 是文字行高与字号之比。
	lineFactor = 1.2
)

// ErrFinished 表示设备已经 Finish，不能再绘制。
var ErrFinished = errors.New("fpdf 设备已结束")

func init() {
	renderer.Register("fpdf", func(opts renderer.Options) (renderer.Renderer, error) {
		return New(opts)
	})
}

// Renderer 在 codeberg.org/go-pdf/fpdf 上实现 layout.Surface，只输出 PDF。
type Renderer struct {
	opts  renderer.Options
	pdf   *fpdf.Fpdf
	fonts *fontSet
	done  bool
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 创建第一页已就绪的 PDF 文档。
func New(opts renderer.Options) (*Renderer, error) {
	if f := strings.ToLower(opts.Format); f != "" && f != "pdf" {
		return nil, fmt.Errorf("fpdf 后端只支持 pdf 输出，不支持 %q", opts.Format)
	}
	pdf := newDocument(opts.PageWidth, opts.PageHeight)
	pdf.SetTitle(opts.Title, true)
	pdf.SetAuthor(opts.Author, true)
	pdf.SetCreator(opts.Creator, true)
	pdf.AddPage()
	if pdf.Err() {
		return nil, fmt.Errorf("创建 PDF 失败: %w", pdf.Error())
	}
	return &Renderer{
		opts:  opts,
		pdf:   pdf,
		fonts: newFontSet(pdf, opts.BaseDir),
	}, nil
}

// newDocument 创建不自动分页、没有页边距的文档；测量面也用它创建。
func newDocument(width, height float64) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

func (r *Renderer) Ready() error {
	if r.done {
		return ErrFinished
	}
	if r.pdf.Err() {
		return r.pdf.Error()
	}
	return nil
}

func (r *Renderer) PageSize() (float64, float64) { return r.opts.PageWidth, r.opts.PageHeight }

// PageCount 返回已创建的页数。
func (r *Renderer) PageCount() int { return r.pdf.PageCount() }

func (r *Renderer) NewPage() error {
	if r.done {
		return ErrFinished
	}
	r.pdf.AddPage()
	return r.pdf.Error()
}

// Ambient 与 canvas 后端一致：0.2mm 黑线、内置 goregular 10pt、深灰文字色。
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

// NewTypesetter 返回基于独立离屏文档的测量面。
func (r *Renderer) NewTypesetter() layout.Typesetter {
	doc := newDocument(r.opts.PageWidth, r.opts.PageHeight)
	doc.AddPage()
	return &typesetter{fonts: newFontSet(doc, r.opts.BaseDir)}
}

func (r *Renderer) DrawLine(ln layout.Line) {
	if r.done {
		return
	}
	w := ln.Pen.Width
	if w <= 0 {
		w = defaultBorderWidth
	}
	r.pdf.SetDrawColor(ln.Pen.Color.R, ln.Pen.Color.G, ln.Pen.Color.B)
	r.pdf.SetLineWidth(w)
	r.pdf.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
}

func (r *Renderer) DrawText(tb layout.TextBox) error {
	if r.done {
		return ErrFinished
	}
	size := fontSize(tb.Font)
	family, err := r.fonts.use(tb.Font, size)
	if err != nil {
		return err
	}
	r.pdf.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
	ascent := ascentOf(r.pdf, family, size)
	cursorY := tb.Y
	for _, line := range tb.Lines {
		cursorY += line.GapBefore
		if line.Content != "" {
			r.pdf.Text(tb.X, cursorY+ascent, line.Content)
		}
		h := line.Height
		if h <= 0 {
			h = size * lineFactor
		}
		cursorY += h
	}
	if r.pdf.Err() {
		return fmt.Errorf("绘制文本失败: %w", r.pdf.Error())
	}
	return nil
}

// Finish 输出整个 PDF 文档。
func (r *Renderer) Finish(w io.Writer) error {
	if r.done {
		return ErrFinished
	}
	r.done = true
	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func fontSize(f layout.Font) float64 {
	if f.Size > 0 {
		return f.Size
	}
	return defaultFontSizePt * layout.PtToMm
}

// ascentOf 返回基线到行顶的距离（mm）；字体描述缺失时按字号的 0.8 估算。
func ascentOf(pdf *fpdf.Fpdf, family string, sizeMM float64) float64 {
	desc := pdf.GetFontDesc(family, "")
	if desc.Ascent <= 0 {
		return sizeMM * 0.8
	}
	return float64(desc.Ascent) * sizeMM / 1000
}

// fontSet 把 layout.Font 注册为 fpdf 字体族；每个 fpdf 实例各自持有一份。
type fontSet struct {
	pdf      *fpdf.Fpdf
	baseDir  string
	families map[string]string
}

func newFontSet(pdf *fpdf.Fpdf, baseDir string) *fontSet {
	return &fontSet{pdf: pdf, baseDir: baseDir, families: map[string]string{}}
}

// use 注册（如有必要）并选中字体，返回字体族名。
func (s *fontSet) use(font layout.Font, sizeMM float64) (string, error) {
	key := font.Src + "|" + strings.ToLower(font.Style)
	family, ok := s.families[key]
	if !ok {
		data, err := fonts.Resolve(font.Src, font.Style, s.baseDir)
		if err != nil {
			return "", err
		}
		family = fmt.Sprintf("folio%d", len(s.families))
		s.pdf.AddUTF8FontFromBytes(family, "", data)
		if s.pdf.Err() {
			err := s.pdf.Error()
			s.pdf.ClearError()
			return "", fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
		}
		s.families[key] = family
	}
	s.pdf.SetFont(family, "", sizeMM*layout.MmToPt)
	return family, nil
}
