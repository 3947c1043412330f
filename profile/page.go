package profile

import (
	"fmt"
	"strings"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
)

// pagePresets 为纵向尺寸（mm）。
var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

func (p *Profile) loadPage(section *dsl.PageSection) error {
	w, h, err := resolvePageSize(section.Spec)
	if err != nil {
		return err
	}
	p.PageWidth, p.PageHeight = w, h
	if m, ok, err := resolveMargin(section.Spec.Params, "margin"); err != nil {
		return err
	} else if ok {
		p.Config.PageMargin = m
	}

	for _, stmt := range statements(section.Block) {
		key, vals := keyValues(stmt)
		switch key {
		case "margin":
			m, err := marginFromValues(vals)
			if err != nil {
				return err
			}
			p.Config.PageMargin = m
		case "cell-margin":
			m, err := marginFromValues(vals)
			if err != nil {
				return err
			}
			p.Config.CellMargin = m
		case "max-row-height":
			l, err := layout.ParseLength(first(vals))
			if err != nil {
				return fmt.Errorf("max-row-height: %w", err)
			}
			p.Config.MaxRowHeight = l.ToMM()
		case "print-header":
			v, err := parseBool(first(vals))
			if err != nil {
				return err
			}
			p.Config.PrintHeader = v
		case "repeat-header":
			v, err := parseBool(first(vals))
			if err != nil {
				return err
			}
			p.Config.RepeatHeader = v
		case "":
		default:
			return fmt.Errorf("未知的 page 设置 %q", key)
		}
	}
	return nil
}

// resolvePageSize 支持预设纸张（可加 landscape）与 `custom <宽> <高>`。
func resolvePageSize(spec dsl.PageSpec) (float64, float64, error) {
	var width, height float64
	params := spec.Params
	if strings.EqualFold(spec.Size, "custom") {
		if len(params) < 2 {
			return 0, 0, fmt.Errorf("custom 纸张需要宽和高")
		}
		w, err := layout.ParseLength(params[0].Value)
		if err != nil {
			return 0, 0, err
		}
		h, err := layout.ParseLength(params[1].Value)
		if err != nil {
			return 0, 0, err
		}
		width, height = w.ToMM(), h.ToMM()
		params = params[2:]
	} else {
		base, ok := pagePresets[strings.ToUpper(spec.Size)]
		if !ok {
			return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
		}
		width, height = base[0], base[1]
	}
	for _, token := range params {
		switch token.Value {
		case "landscape":
			if width < height {
				width, height = height, width
			}
		case "portrait":
			if width > height {
				width, height = height, width
			}
		}
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("纸张尺寸无效: %gx%g", width, height)
	}
	return width, height, nil
}

// resolveMargin 收集关键字之后最多 4 个长度值。
func resolveMargin(params []*dsl.Lexeme, keyword string) (layout.Margin, bool, error) {
	for i := 0; i < len(params); i++ {
		if params[i].Value != keyword {
			continue
		}
		var vals []string
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			// 遇到非长度的词（例如 portrait）就停止
			if _, err := layout.ParseLength(params[j].Value); err != nil {
				break
			}
			vals = append(vals, params[j].Value)
		}
		m, err := marginFromValues(vals)
		return m, true, err
	}
	return layout.Margin{}, false, nil
}

// marginFromValues 采用 CSS 语义：
// 1 个值：四边相同；2 个值：上下 / 左右；3 个值：上 / 左右 / 下；4 个值：上 / 右 / 下 / 左。
func marginFromValues(raw []string) (layout.Margin, error) {
	vals := make([]float64, 0, len(raw))
	for _, r := range raw {
		l, err := layout.ParseLength(r)
		if err != nil {
			return layout.Margin{}, err
		}
		vals = append(vals, l.ToMM())
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return layout.Margin{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	default:
		return layout.Margin{}, fmt.Errorf("边距需要 1 到 4 个值，实际 %d 个", len(vals))
	}
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("无法解析布尔值 %q", v)
	}
}
