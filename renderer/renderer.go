package renderer

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/ByLCY/folio/layout"
)

// Renderer 是可供 layout.Printer 绘制的输出设备；绘制结束后 Finish 把全部页面写出，
// 例如 PDF 字节流或单页图片。Finish 之后设备不再可用。
type Renderer interface {
	layout.Surface
	Finish(w io.Writer) error
}

// Options 是各后端共用的设备参数，长度单位为毫米。
type Options struct {
	PageWidth  float64
	PageHeight float64
	// Format 为输出格式，例如 pdf、svg、png；后端不支持时返回错误。
	Format  string
	BaseDir string // 相对字体路径的根目录
	Title   string
	Author  string
	Creator string
}

// Factory 根据 Options 创建一个新的输出设备。
type Factory func(opts Options) (Renderer, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register 注册名为 name 的后端；重复注册会覆盖之前的实现。
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New 使用已注册的后端创建输出设备。
func New(name string, opts Options) (Renderer, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("未知的渲染后端 %q（可用：%v）", name, Backends())
	}
	if opts.PageWidth <= 0 || opts.PageHeight <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", opts.PageWidth, opts.PageHeight)
	}
	return f(opts)
}

// Backends 返回已注册的后端名称（已排序）。
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
