// Package profile 把 *.folio 打印配置解释为 layout.Config、列拉伸系数与表头。
package profile

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/source"
)

// Profile 是解析后的打印配置。长度单位均为毫米。
type Profile struct {
	Name    string
	Version string

	Title    string
	Author   string
	Subject  string
	Keywords []string

	PageWidth  float64
	PageHeight float64
	// Config 不含 Decorator 与 Logger，由调用方补齐。
	Config layout.Config

	Columns []Column
	Footer  *Footer
}

// Column 描述一列：Field 是数据源中的列名（CSV/SQL）或数据路径（JSON）。
type Column struct {
	Title   string
	Field   string
	Stretch int
}

// Footer 配置页眉标题与页脚页码。
type Footer struct {
	Title  string // 支持 ${path} 插值
	Label  string // 页码格式，为空时使用本地化的默认文案
	Locale string
	Start  int // 第一页的页码
	Font   layout.Font
	Color  *layout.Color
}

// Default 返回 A4 纵向、20mm 页边距、其余为引擎默认值的配置。
func Default() *Profile {
	cfg := layout.DefaultConfig()
	cfg.PageMargin = layout.Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}
	return &Profile{
		Name:       "default",
		Version:    "v1",
		PageWidth:  pagePresets["A4"][0],
		PageHeight: pagePresets["A4"][1],
		Config:     cfg,
	}
}

// Parse 从 r 读取并解释配置。
func Parse(r io.Reader) (*Profile, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析打印配置失败: %w", err)
	}
	return Load(doc)
}

// ParseFile 读取 path 指向的配置文件。
func ParseFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开打印配置 %s 失败: %w", path, err)
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Load 解释已解析的语法树。未出现的 section 保持 Default 中的取值。
func Load(doc *dsl.Document) (*Profile, error) {
	p := Default()
	p.Name = doc.Name
	p.Version = doc.Version
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Meta != nil:
			p.loadMeta(section.Meta.Block)
		case section.Page != nil:
			err = p.loadPage(section.Page)
		case section.Style != nil:
			err = p.loadStyle(section.Style.Block)
		case section.Footer != nil:
			err = p.loadFooter(section.Footer.Block)
		case section.Columns != nil:
			err = p.loadColumns(section.Columns.Block)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", section.Kind(), err)
		}
	}
	return p, nil
}

// Stretch 返回各列的拉伸系数；未声明列时每列均为 1。
func (p *Profile) Stretch(src layout.TabularSource) []int {
	if len(p.Columns) == 0 {
		out := make([]int, src.ColumnCount())
		for i := range out {
			out[i] = 1
		}
		return out
	}
	out := make([]int, len(p.Columns))
	for i, c := range p.Columns {
		out[i] = c.Stretch
	}
	return out
}

// Headers 返回表头覆盖；未声明列或所有列都没有标题时返回 nil（使用数据源表头）。
func (p *Profile) Headers() []string {
	out := make([]string, len(p.Columns))
	titled := false
	for i, c := range p.Columns {
		out[i] = c.Title
		if c.Title != "" {
			titled = true
		} else {
			out[i] = c.Field
		}
	}
	if !titled {
		return nil
	}
	return out
}

// Fields 返回各列引用的字段名。
func (p *Profile) Fields() []string {
	out := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		out[i] = c.Field
	}
	return out
}

// SourceColumns 把列定义转换为 JSON 数据源的取值方式。
func (p *Profile) SourceColumns() []source.Column {
	out := make([]source.Column, len(p.Columns))
	for i, c := range p.Columns {
		out[i] = source.Column{Title: c.Title, Path: c.Field}
	}
	return out
}

// Bind 按列定义从表格中挑选并排序列；未声明列时原样返回。
func (p *Profile) Bind(g *source.Grid) (*source.Grid, error) {
	if len(p.Columns) == 0 {
		return g, nil
	}
	return g.Select(p.Fields()...)
}

func (p *Profile) loadMeta(block *dsl.Block) {
	for _, stmt := range statements(block) {
		if stmt.Assignment == nil {
			continue
		}
		switch strings.ToLower(stmt.Assignment.Key) {
		case "title":
			p.Title = valueToString(stmt.Assignment.Value)
		case "author":
			p.Author = valueToString(stmt.Assignment.Value)
		case "subject":
			p.Subject = valueToString(stmt.Assignment.Value)
		case "keywords":
			p.Keywords = valueToStringSlice(stmt.Assignment.Value)
		}
	}
}

func (p *Profile) loadColumns(block *dsl.Block) error {
	p.Columns = nil
	for _, stmt := range statements(block) {
		cmd := stmt.Command
		if cmd == nil || cmd.Name != "column" {
			return fmt.Errorf("columns 中只允许 column 语句")
		}
		col := Column{Stretch: 1}
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0].Value)
			if err != nil || n < 0 {
				return fmt.Errorf("第 %d 列的拉伸系数无效: %q", len(p.Columns)+1, cmd.Args[0].Raw)
			}
			col.Stretch = n
		}
		for _, inner := range statements(cmd.Block) {
			if inner.Assignment == nil {
				continue
			}
			switch inner.Assignment.Key {
			case "title":
				col.Title = valueToString(inner.Assignment.Value)
			case "field":
				col.Field = valueToString(inner.Assignment.Value)
			case "stretch":
				n, err := strconv.Atoi(valueToString(inner.Assignment.Value))
				if err != nil || n < 0 {
					return fmt.Errorf("第 %d 列的拉伸系数无效", len(p.Columns)+1)
				}
				col.Stretch = n
			}
		}
		if col.Field == "" {
			col.Field = col.Title
		}
		p.Columns = append(p.Columns, col)
	}
	return nil
}

func (p *Profile) loadFooter(block *dsl.Block) error {
	f := &Footer{Start: 1}
	for _, stmt := range statements(block) {
		key, vals := keyValues(stmt)
		switch key {
		case "title":
			f.Title = first(vals)
		case "label":
			f.Label = first(vals)
		case "locale":
			f.Locale = first(vals)
		case "start":
			n, err := strconv.Atoi(first(vals))
			if err != nil || n < 1 {
				return fmt.Errorf("起始页码无效: %q", first(vals))
			}
			f.Start = n
		case "font":
			if stmt.Command == nil {
				return fmt.Errorf("font 需要写成命令形式，例如 font size 8pt")
			}
			font, color, err := parseFont(stmt.Command.Args)
			if err != nil {
				return err
			}
			f.Font, f.Color = font, color
		case "":
		default:
			return fmt.Errorf("未知的 footer 设置 %q", key)
		}
	}
	p.Footer = f
	return nil
}

func statements(block *dsl.Block) []*dsl.Statement {
	if block == nil {
		return nil
	}
	return block.Statements
}

// keyValues 同时接受 `key: value` 与 `key v1 v2 ...` 两种写法。
func keyValues(stmt *dsl.Statement) (string, []string) {
	switch {
	case stmt.Assignment != nil:
		return strings.ToLower(stmt.Assignment.Key), []string{valueToString(stmt.Assignment.Value)}
	case stmt.Command != nil:
		vals := make([]string, 0, len(stmt.Command.Args))
		for _, a := range stmt.Command.Args {
			vals = append(vals, a.Value)
		}
		return strings.ToLower(stmt.Command.Name), vals
	default:
		return "", nil
	}
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
