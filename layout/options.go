package layout

import "github.com/charmbracelet/log"

// DefaultMaxRowHeight 是单行最大高度的默认值（mm），足够大以至于通常不会触发截断。
const DefaultMaxRowHeight = 1000.0

// DefaultCellPadding 是单元格四边的默认内边距（mm）。
const DefaultCellPadding = 1.2

// Config 汇总表格打印的全部可配置项，单位均为毫米。
type Config struct {
	CellMargin   Margin // 单元格内边距
	PageMargin   Margin // 页面四周留白，表格区域之外
	MaxRowHeight float64
	PrintHeader  bool
	RepeatHeader bool // 换页时重复表头；PrintHeader 为 false 时忽略
	Style        Style
	Decorator    PageDecorator
	Logger       *log.Logger
}

// DefaultConfig 返回与原始打印行为一致的默认配置。
func DefaultConfig() Config {
	return Config{
		CellMargin: Margin{
			Top:    DefaultCellPadding,
			Right:  DefaultCellPadding,
			Bottom: DefaultCellPadding,
			Left:   DefaultCellPadding,
		},
		MaxRowHeight: DefaultMaxRowHeight,
		PrintHeader:  true,
		RepeatHeader: true,
	}
}

// Option 在创建 Printer 时修改配置。
type Option func(*Config)

// WithConfig 整体替换配置。
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithPageDecorator 设置页面装饰器。
func WithPageDecorator(d PageDecorator) Option {
	return func(c *Config) { c.Decorator = d }
}

// WithLogger 设置调试日志输出。
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithStyle 设置表格样式。
func WithStyle(s Style) Option {
	return func(c *Config) { c.Style = s }
}
