package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	_ "modernc.org/sqlite"

	"github.com/ByLCY/folio/decor"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/profile"
	"github.com/ByLCY/folio/source"
)

// inputParams 是 render 与 plan 共用的输入参数。
type inputParams struct {
	profile   string
	csv       string
	delimiter string
	noHeader  bool
	json      string
	sqlite    string
	query     string
	data      string
}

func addInputFlags(fs *pflag.FlagSet, p *inputParams) {
	fs.StringVarP(&p.profile, "profile", "p", "", "打印配置文件（*.folio），为空时使用 A4 默认配置")
	fs.StringVar(&p.csv, "csv", "", "CSV 数据文件")
	fs.StringVar(&p.delimiter, "delimiter", ",", "CSV 字段分隔符")
	fs.BoolVar(&p.noHeader, "no-header", false, "CSV 第一行也是数据")
	fs.StringVar(&p.json, "json", "", "JSON 记录数组文件")
	fs.StringVar(&p.sqlite, "sqlite", "", "SQLite 数据库文件")
	fs.StringVar(&p.query, "query", "", "在 --sqlite 上执行的查询")
	fs.StringVar(&p.data, "data", "", "页眉标题插值使用的 JSON 数据")
}

// job 是一次打印所需的全部输入。
type job struct {
	profile *profile.Profile
	baseDir string
	grid    *source.Grid
	data    map[string]any
}

func (j *job) stretch() []int    { return j.profile.Stretch(j.grid) }
func (j *job) headers() []string { return j.profile.Headers() }

// watchPaths 返回影响输出的本地文件。
func (p inputParams) watchPaths() []string {
	var out []string
	for _, path := range []string{p.profile, p.csv, p.json, p.sqlite} {
		if path != "" {
			out = append(out, path)
		}
	}
	return out
}

func (p inputParams) load(ctx context.Context) (*job, error) {
	j := &job{baseDir: "."}
	if p.profile == "" {
		j.profile = profile.Default()
	} else {
		prof, err := profile.ParseFile(p.profile)
		if err != nil {
			return nil, err
		}
		j.profile = prof
		j.baseDir = filepath.Dir(p.profile)
	}

	if p.data != "" {
		if err := json.Unmarshal([]byte(p.data), &j.data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	grid, err := p.loadGrid(ctx, j.profile)
	if err != nil {
		return nil, err
	}
	j.grid = grid
	return j, nil
}

func (p inputParams) loadGrid(ctx context.Context, prof *profile.Profile) (*source.Grid, error) {
	given := 0
	for _, s := range []string{p.csv, p.json, p.sqlite} {
		if s != "" {
			given++
		}
	}
	if given != 1 {
		return nil, errors.New("需要且只能指定 --csv、--json、--sqlite 之一")
	}

	switch {
	case p.json != "":
		f, err := os.Open(p.json)
		if err != nil {
			return nil, fmt.Errorf("打开 %s 失败: %w", p.json, err)
		}
		defer f.Close()
		// JSON 按列定义中的数据路径取值，不再需要 Bind
		return source.ReadJSON(f, prof.SourceColumns())
	case p.csv != "":
		delim, err := parseDelimiter(p.delimiter)
		if err != nil {
			return nil, err
		}
		g, err := source.OpenCSV(p.csv, source.CSVOptions{Delimiter: delim, NoHeader: p.noHeader})
		if err != nil {
			return nil, err
		}
		return prof.Bind(g)
	default:
		if p.query == "" {
			return nil, errors.New("--sqlite 需要同时指定 --query")
		}
		if _, err := os.Stat(p.sqlite); err != nil {
			return nil, fmt.Errorf("打开数据库 %s 失败: %w", p.sqlite, err)
		}
		db, err := sql.Open("sqlite", p.sqlite)
		if err != nil {
			return nil, fmt.Errorf("打开数据库 %s 失败: %w", p.sqlite, err)
		}
		defer db.Close()
		g, err := source.Query(ctx, db, p.query)
		if err != nil {
			return nil, err
		}
		return prof.Bind(g)
	}
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("分隔符必须是单个字符: %q", s)
	}
	return r, nil
}

// configFor 把配置与装饰器、日志合并为引擎配置。
func (j *job) configFor(dec layout.PageDecorator, logger *log.Logger) layout.Config {
	cfg := j.profile.Config
	cfg.Decorator = dec
	cfg.Logger = logger
	return cfg
}

// decorator 依据 footer 设置创建页眉页脚装饰器；未配置时返回 nil。
func (j *job) decorator() (*decor.Running, error) {
	f := j.profile.Footer
	if f == nil {
		return nil, nil
	}
	tag, err := decor.ParseLocale(f.Locale)
	if err != nil {
		return nil, err
	}
	title := f.Title
	if title == "" {
		title = j.profile.Title
	}
	d := decor.NewRunning(title, tag, f.Start)
	d.Label = f.Label
	d.Font = f.Font
	if f.Color != nil {
		d.Color = *f.Color
	}
	d.Data = j.data
	return d, nil
}
