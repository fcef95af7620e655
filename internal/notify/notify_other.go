//go:build !windows

package notify

// NewNotifier 创建通知器，非 Windows 平台写入日志
func NewNotifier() Notifier {
	return LogNotifier{}
}
