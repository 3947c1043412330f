package canvasrenderer

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/folio/layout"
)

// measureCacheSize 是单个排版器缓存的测量结果数量上限；重复的单元格文本（如状态列）可直接命中。
const measureCacheSize = 512

// typesetter 是离屏测量面：与 Renderer 共用字体族，但从不在画布上绘制。
type typesetter struct {
	r     *Renderer
	cache *lru.Cache[string, []layout.TextLine]
}

func newTypesetter(r *Renderer, size int) *typesetter {
	cache, err := lru.New[string, []layout.TextLine](size)
	if err != nil {
		cache = nil
	}
	return &typesetter{r: r, cache: cache}
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：宽度、字号与行高均为毫米（mm）；与字体系统交互使用 pt，在边界做 mm↔pt 换算。
func (t *typesetter) LayoutLines(content string, width float64, font layout.Font) ([]layout.TextLine, error) {
	key := fmt.Sprintf("%s|%g|%g|%g|%s", fontCacheKey(font), font.Size, font.LineHeight, width, content)
	if t.cache != nil {
		if lines, ok := t.cache.Get(key); ok {
			return append([]layout.TextLine(nil), lines...), nil
		}
	}

	face, err := t.r.fontFace(font, toPt(t.r.fontSize(font)), layout.Color{})
	if err != nil {
		return nil, err
	}
	lines := greedyWrapTokens(content, maxWidth(width), face)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = t.r.fontSize(font)
	}
	leading := math.Max(font.LineHeight-textHeight, 0)
	for i := range lines {
		lines[i].Height = textHeight
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}

	if t.cache != nil {
		t.cache.Add(key, append([]layout.TextLine(nil), lines...))
	}
	return lines, nil
}

// greedyWrapTokens 优先在空白处分割，单个词超过限制时在词内拆分；显式换行总是开始新行。
// 空文本返回一行空行。
func greedyWrapTokens(content string, limit float64, face *canvas.FontFace) []layout.TextLine {
	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		// 行尾空白不参与宽度
		lineStr := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		lines = append(lines, layout.TextLine{
			Content: lineStr,
			Width:   face.TextWidth(lineStr),
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	// 刚因宽度换行后的下一个显式换行不再产生空行
	wrapped := false
	for _, token := range tokens {
		if token == "\n" {
			if !wrapped {
				emit(true)
			}
			wrapped = false
			continue
		}
		wrapped = false

		isSpace := strings.TrimSpace(token) == ""
		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
			if isSpace {
				continue
			}
		}
		if isSpace && builder.Len() == 0 {
			// 行首空白被吞掉，与换行处的空白一致
			if len(lines) > 0 {
				continue
			}
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth >= limit {
				emit(false)
				wrapped = true
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth >= limit {
				emit(false)
				wrapped = true
			}
		}
	}

	if builder.Len() > 0 || len(lines) == 0 || !wrapped {
		emit(true)
	}
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
