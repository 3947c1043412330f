package canvasrenderer

import (
	"math"
	"testing"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

func newTestTypesetter(t *testing.T) layout.Typesetter {
	t.Helper()
	r, err := New(renderer.Options{PageWidth: 210, PageHeight: 297})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return r.NewTypesetter()
}

func bodyFont(lineFactor float64) layout.Font {
	size := 12 * layout.PtToMm
	return layout.Font{Name: "Body", Src: "builtin:goregular", Size: size, LineHeight: size * lineFactor}
}

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	ts := newTestTypesetter(t)
	lines, err := ts.LayoutLines("hello world again", 10, bodyFont(1.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
}

func TestGreedyWrapHonorsNewlines(t *testing.T) {
	ts := newTestTypesetter(t)
	lines, err := ts.LayoutLines("foo\n\nbar", 100, bodyFont(1.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

func TestEmptyContentIsOneLine(t *testing.T) {
	ts := newTestTypesetter(t)
	lines, err := ts.LayoutLines("", 50, bodyFont(1.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Height <= 0 {
		t.Fatalf("空文本应测量为一行: %+v", lines)
	}
}

// TestLineHeightsInvariant 验证：
// 1) 首行 GapBefore == 0；
// 2) 其余行 GapBefore ≈ max(lineHeight - textHeight, 0)；
// 3) 各行的 Height 与 textHeight 一致。
func TestLineHeightsInvariant(t *testing.T) {
	ts := newTestTypesetter(t)
	font := bodyFont(1.3)
	content := "longlonglong longlonglong longlonglong longlonglong longlonglong"
	lines, err := ts.LayoutLines(content, 40, font)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines for invariant test, got %d", len(lines))
	}

	textHeight := lines[0].Height
	if textHeight <= 0 {
		t.Fatalf("invalid text height: %g", textHeight)
	}
	wantLeading := math.Max(font.LineHeight-textHeight, 0)

	if lines[0].GapBefore != 0 {
		t.Fatalf("first line GapBefore must be 0, got %g", lines[0].GapBefore)
	}
	const eps = 1e-6
	for i := 1; i < len(lines); i++ {
		if diff := math.Abs(lines[i].GapBefore - wantLeading); diff > eps {
			t.Fatalf("line %d GapBefore mismatch: got=%g want=%g diff=%g", i, lines[i].GapBefore, wantLeading, diff)
		}
		if diff := math.Abs(lines[i].Height - textHeight); diff > eps {
			t.Fatalf("line %d Height mismatch: got=%g want=%g diff=%g", i, lines[i].Height, textHeight, diff)
		}
	}
}

// TestGreedyWrapWidthLimit 验证每行宽度不超过限制（mm）。
func TestGreedyWrapWidthLimit(t *testing.T) {
	ts := newTestTypesetter(t)
	limit := 30.0
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa bb cc dddddddd"
	lines, err := ts.LayoutLines(content, limit, bodyFont(1.2))
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapped lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	ts := newTestTypesetter(t)
	font := bodyFont(1.2)

	first := "SAMPLE-A"
	measured, err := ts.LayoutLines(first, 1e6, font)
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	if len(measured) != 1 {
		t.Fatalf("unexpected measured lines: %d", len(measured))
	}
	limit := measured[0].Width
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}

	lines, err := ts.LayoutLines(first+"\n"+"SAMPLE", limit, font)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Content != first || lines[1].Content != "SAMPLE" {
		t.Fatalf("unexpected lines: %q / %q", lines[0].Content, lines[1].Content)
	}
}

func TestMeasureCacheReturnsCopies(t *testing.T) {
	ts := newTestTypesetter(t)
	font := bodyFont(1.2)
	first, err := ts.LayoutLines("cached text", 100, font)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	first[0].Content = "mutated"
	second, err := ts.LayoutLines("cached text", 100, font)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if second[0].Content != "cached text" {
		t.Fatalf("缓存结果被调用方修改: %q", second[0].Content)
	}
}

func TestUnknownFontFails(t *testing.T) {
	ts := newTestTypesetter(t)
	if _, err := ts.LayoutLines("x", 10, layout.Font{Src: "builtin:nope", Size: 4}); err == nil {
		t.Fatalf("未知字体应当返回错误")
	}
}
