package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVOptions 控制 CSV 的读取方式。
type CSVOptions struct {
	// Delimiter 为字段分隔符，零值表示逗号。
	Delimiter rune
	// NoHeader 为 true 时第一行作为数据，表头为 Column 1..N。
	NoHeader bool
}

// ReadCSV 读取带表头的分隔符文本。各行字段数可以不同，按最长行补齐列数。
func ReadCSV(r io.Reader, opts CSVOptions) (*Grid, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("CSV 为空")
	}

	cols := 0
	for _, rec := range records {
		cols = max(cols, len(rec))
	}
	var headers []string
	if opts.NoHeader {
		headers = make([]string, cols)
		for i := range headers {
			headers[i] = fmt.Sprintf("Column %d", i+1)
		}
	} else {
		headers = make([]string, cols)
		copy(headers, records[0])
		records = records[1:]
	}
	return NewGrid(headers, records), nil
}

// OpenCSV 打开并读取 path 指向的 CSV 文件。
func OpenCSV(path string, opts CSVOptions) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 %s 失败: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, opts)
}
