// Package fonts 提供随程序分发的内置字体，以及字体 src 的统一解析。
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是未指定 src 时使用的内置字体。
const Default = "goregular"

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomono":       gomono.TTF,
}

// Names 返回全部内置字体名（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:gobold" 或直接 "gobold"。
func Load(name string) ([]byte, error) {
	name = trimScheme(name)
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 builtin:%s", name)
	}
	return data, nil
}

// ForStyle 按样式挑选内置字体族中的成员，用于 src 为空的字体。
func ForStyle(style string) string {
	s := strings.ToLower(style)
	bold := strings.Contains(s, "bold")
	italic := strings.Contains(s, "italic") || strings.Contains(s, "oblique")
	switch {
	case bold && italic:
		return "gobolditalic"
	case bold:
		return "gobold"
	case italic:
		return "goitalic"
	case strings.Contains(s, "mono"):
		return "gomono"
	default:
		return Default
	}
}

// Resolve 读取 src 指向的字体：builtin:<name> 取内置字体，其余按路径读取（相对路径基于 baseDir）。
func Resolve(src, style, baseDir string) ([]byte, error) {
	if src == "" {
		return Load(ForStyle(style))
	}
	if isBuiltin(src) {
		return Load(src)
	}
	if baseDir == "" && !filepath.IsAbs(src) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func isBuiltin(src string) bool {
	return strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "built-in:")
}

func trimScheme(name string) string {
	return strings.TrimPrefix(strings.TrimPrefix(name, "built-in:"), "builtin:")
}
