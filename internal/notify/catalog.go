package notify

// Catalog 状态消息 ID → 显示文本
type Catalog map[string]string

// DefaultCatalog 内置状态消息
func DefaultCatalog() Catalog {
	return Catalog{
		"ellipseActive":    "Click and drag to draw an ellipse.",
		"ellipseMousedown": "Drag to draw the ellipse. Hold Shift to draw a circle. Press Escape to cancel.",
	}
}

// Text 查找消息文本，未知 ID 原样返回
func (c Catalog) Text(id string) string {
	if text, ok := c[id]; ok {
		return text
	}
	return id
}

// Status 状态栏：按 ID 查找文本并发送通知
type Status struct {
	notifier Notifier
	catalog  Catalog
	title    string
	enabled  bool
	last     string
}

// NewStatus 创建状态栏
func NewStatus(n Notifier, c Catalog, title string) *Status {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Status{notifier: n, catalog: c, title: title, enabled: true}
}

// SetEnabled 开关通知推送，关闭后仍记录最后一条消息
func (s *Status) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// Show 显示状态消息
func (s *Status) Show(id string) error {
	s.last = id
	if !s.enabled || s.notifier == nil {
		return nil
	}
	return s.notifier.Show(s.title, s.catalog.Text(id))
}

// Last 最后一条消息 ID
func (s *Status) Last() string {
	return s.last
}
