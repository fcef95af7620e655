//go:build windows

package notify

import (
	"github.com/go-toast/toast"

	"snapdraw/internal/logging"
)

// WindowsNotifier Windows 通知实现
type WindowsNotifier struct {
	appID string
}

// NewNotifier 创建通知器
func NewNotifier() Notifier {
	return &WindowsNotifier{
		appID: "SnapDraw",
	}
}

// Show 显示通知（异步，不阻塞事件循环）
func (n *WindowsNotifier) Show(title, message string) error {
	go func() {
		notification := toast.Notification{
			AppID:   n.appID,
			Title:   title,
			Message: message,
		}
		if err := notification.Push(); err != nil {
			logging.Logger().Warn("通知发送失败", "err", err)
		}
	}()
	return nil
}
