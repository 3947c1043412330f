package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLayout 表示输入的列数、拉伸系数或页面几何无效。
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrDeviceNotReady 表示输出设备或画布当前不可用。
	ErrDeviceNotReady = errors.New("device not ready")
)

// LayoutError 携带错误类别（可用 errors.Is 判断）与可展示的描述。
type LayoutError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *LayoutError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap 同时暴露错误类别与底层原因。
func (e *LayoutError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func invalidLayout(format string, args ...any) error {
	return &LayoutError{Kind: ErrInvalidLayout, Msg: fmt.Sprintf(format, args...)}
}

func deviceNotReady(err error) error {
	return &LayoutError{Kind: ErrDeviceNotReady, Msg: "输出设备不可用", Err: err}
}
