package clipboard

import (
	"errors"
	"fmt"

	sysclip "github.com/atotto/clipboard"
)

// ErrUnavailable 当前环境没有可用的剪贴板
var ErrUnavailable = errors.New("剪贴板不可用")

// Clipboard 剪贴板接口
type Clipboard interface {
	SetText(text string) error
}

var (
	writeAll    = sysclip.WriteAll
	unsupported = func() bool { return sysclip.Unsupported }
)

// SystemClipboard 系统剪贴板
// Windows 使用系统 API，macOS 使用 pbcopy，其他平台依次尝试 wl-copy、xclip、xsel。
type SystemClipboard struct{}

// NewClipboard 创建剪贴板
func NewClipboard() Clipboard {
	return SystemClipboard{}
}

// SetText 写入文本
func (SystemClipboard) SetText(text string) error {
	if unsupported() {
		return ErrUnavailable
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("写入剪贴板失败: %w", err)
	}
	return nil
}
