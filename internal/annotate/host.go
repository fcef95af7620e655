package annotate

import "snapdraw/internal/schedule"

// Surface 预览绘图表面
// 语义与 2D canvas 一致：Fill 与 Stroke 不清除当前路径。
type Surface interface {
	ClearRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
	Fill()
	Stroke()
}

// Host 工具所需的宿主能力
type Host interface {
	// Pointer 当前指针状态（图像坐标）
	Pointer() Pointer
	// SetButtonDown 重置宿主的按键状态
	SetButtonDown(down bool)
	// Surface 预览表面
	Surface() Surface
	// ImageSize 图像尺寸
	ImageSize() (w, h int)
	// CommitPreview 将预览合并到图层
	CommitPreview()
	// ShowStatus 按消息 ID 显示状态栏消息
	ShowStatus(id string)
	// Settings 当前工具配置
	Settings() Settings
	// Scheduler 周期任务调度器
	Scheduler() schedule.Scheduler
}
