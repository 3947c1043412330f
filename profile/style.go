package profile

import (
	"fmt"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
)

func (p *Profile) loadStyle(block *dsl.Block) error {
	for _, stmt := range statements(block) {
		cmd := stmt.Command
		if cmd == nil {
			return fmt.Errorf("style 中只允许命令语句")
		}
		switch cmd.Name {
		case "border":
			pen, err := parsePen(cmd.Args)
			if err != nil {
				return err
			}
			p.Config.Style.Border = &pen
		case "header-font":
			font, color, err := parseFont(cmd.Args)
			if err != nil {
				return err
			}
			p.Config.Style.HeaderFont, p.Config.Style.HeaderColor = font, color
		case "content-font":
			font, color, err := parseFont(cmd.Args)
			if err != nil {
				return err
			}
			p.Config.Style.ContentFont, p.Config.Style.ContentColor = font, color
		default:
			return fmt.Errorf("未知的 style 命令 %q", cmd.Name)
		}
	}
	return nil
}

// parsePen 解析 `border <宽度> [颜色]`。
func parsePen(args []*dsl.Lexeme) (layout.Pen, error) {
	var pen layout.Pen
	for _, a := range args {
		if a.Type == "Color" {
			c, err := layout.ParseColor(a.Value)
			if err != nil {
				return pen, err
			}
			pen.Color = c
			continue
		}
		l, err := layout.ParseLength(a.Value)
		if err != nil {
			return pen, fmt.Errorf("border: %w", err)
		}
		pen.Width = l.ToMM()
	}
	return pen, nil
}

// parseFont 解析 `["src"] [name N] [size L] [line-height H] [style S] [color C]`。
// 返回的颜色为 nil 表示沿用画布默认色。
func parseFont(args []*dsl.Lexeme) (layout.Font, *layout.Color, error) {
	var font layout.Font
	var color *layout.Color
	if len(args) > 0 && args[0].Type == "String" {
		font.Src = args[0].Value
		args = args[1:]
	}
	var lineHeight *layout.LineHeightSpec
	for _, kv := range parseArgs(args) {
		switch kv.key {
		case "name":
			font.Name = kv.value
		case "src":
			font.Src = kv.value
		case "style":
			font.Style = kv.value
		case "size":
			l, err := layout.ParseLength(kv.value)
			if err != nil {
				return font, nil, fmt.Errorf("size: %w", err)
			}
			// 字号未写单位时按 pt 理解
			if l.Unit == layout.UnitNone {
				l.Unit = layout.UnitPT
			}
			font.Size = l.ToMM()
		case "line-height":
			spec, err := layout.ParseLineHeight(kv.value)
			if err != nil {
				return font, nil, err
			}
			lineHeight = &spec
		case "color":
			c, err := layout.ParseColor(kv.value)
			if err != nil {
				return font, nil, err
			}
			color = &c
		default:
			return font, nil, fmt.Errorf("未知的字体属性 %q", kv.key)
		}
	}
	if lineHeight != nil {
		font.LineHeight = lineHeight.ResolveMM(font.Size)
	}
	if font.Name == "" && !font.IsZero() {
		font.Name = "Body"
	}
	return font, color, nil
}

type keyValue struct {
	key, value string
}

// parseArgs 把参数按 key value 成对读取，末尾落单的键被忽略。
func parseArgs(args []*dsl.Lexeme) []keyValue {
	var out []keyValue
	for cursor := 0; cursor < len(args)-1; cursor += 2 {
		out = append(out, keyValue{key: args[cursor].Value, value: args[cursor+1].Value})
	}
	return out
}
