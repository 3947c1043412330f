package renderer

import (
	"io"
	"strings"
	"testing"

	"github.com/ByLCY/folio/layout"
)

type nopRenderer struct {
	layout.Surface
	opts Options
}

func (nopRenderer) Finish(io.Writer) error { return nil }

func TestRegistry(t *testing.T) {
	Register("nop", func(opts Options) (Renderer, error) {
		return nopRenderer{opts: opts}, nil
	})
	found := false
	for _, name := range Backends() {
		if name == "nop" {
			found = true
		}
	}
	if !found {
		t.Fatalf("注册的后端未出现在列表中: %v", Backends())
	}

	r, err := New("nop", Options{PageWidth: 210, PageHeight: 297, Title: "t"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if got := r.(nopRenderer).opts.Title; got != "t" {
		t.Fatalf("Options 未传递给后端: %q", got)
	}

	if _, err := New("nop", Options{}); err == nil {
		t.Fatalf("无效页面尺寸应当失败")
	}
	if _, err := New("missing", Options{PageWidth: 1, PageHeight: 1}); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("未知后端应当失败: %v", err)
	}
}
