package notify

import (
	"sync"

	"snapdraw/internal/logging"
)

// Notifier 通知接口
type Notifier interface {
	Show(title, message string) error
}

// LogNotifier 将通知写入日志
type LogNotifier struct{}

// Show 实现 Notifier
func (LogNotifier) Show(title, message string) error {
	logging.Logger().Info(message, "title", title)
	return nil
}

// Message 一条已发送的通知
type Message struct {
	Title string
	Text  string
}

// Recorder 记录所有通知，可选地转发给下一个 Notifier
type Recorder struct {
	mu       sync.Mutex
	next     Notifier
	messages []Message
}

// NewRecorder 创建记录器，next 可为 nil
func NewRecorder(next Notifier) *Recorder {
	return &Recorder{next: next}
}

// Show 实现 Notifier
func (r *Recorder) Show(title, message string) error {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Title: title, Text: message})
	r.mu.Unlock()

	if r.next != nil {
		return r.next.Show(title, message)
	}
	return nil
}

// Messages 返回已记录通知的副本
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
