package fpdfrenderer

import (
	"math"
	"strings"

	"github.com/ByLCY/folio/layout"
)

// typesetter 使用 fpdf 的 SplitText 在离屏文档上测量，与最终 PDF 的字宽一致。
type typesetter struct {
	fonts *fontSet
}

func (t *typesetter) LayoutLines(content string, width float64, font layout.Font) ([]layout.TextLine, error) {
	size := fontSize(font)
	if _, err := t.fonts.use(font, size); err != nil {
		return nil, err
	}
	pdf := t.fonts.pdf
	textHeight := size * lineFactor
	leading := math.Max(font.LineHeight-textHeight, 0)

	var lines []layout.TextLine
	content = strings.ReplaceAll(content, "\r", "")
	for _, para := range strings.Split(content, "\n") {
		var parts []string
		if width > 0 && para != "" {
			parts = pdf.SplitText(para, width)
		} else if para != "" {
			parts = []string{para}
		}
		if len(parts) == 0 {
			parts = []string{""}
		}
		for _, p := range parts {
			p = strings.TrimRight(p, " \t")
			lines = append(lines, layout.TextLine{
				Content: p,
				Width:   pdf.GetStringWidth(p),
				Height:  textHeight,
			})
		}
	}
	for i := range lines {
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}
