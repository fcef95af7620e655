package annotate

import (
	"snapdraw/internal/logging"
	"snapdraw/internal/schedule"
)

// gestureState 单次手势的状态
type gestureState struct {
	anchor    Point           // 起始点
	constrain bool            // Shift 按下时约束为圆
	dirty     bool            // 预览需要重绘
	dragged   bool            // 本次手势中指针曾离开起始点
	clicked   bool            // 在起始点单击后松开，等待第二次单击
	timer     schedule.Handle // 重绘任务
}

// EllipseTool 椭圆/圆绘制工具
//
// 按下记录起始点并启动周期重绘任务，移动只标记需要重绘，
// 由重绘任务统一绘制预览，松开时提交到图层，Escape 取消。
type EllipseTool struct {
	host  Host
	state gestureState
}

var _ Tool = (*EllipseTool)(nil)

// NewEllipseTool 创建椭圆工具
func NewEllipseTool(h Host) *EllipseTool {
	return &EllipseTool{host: h}
}

// Activate 工具激活
func (t *EllipseTool) Activate() {
	t.state = gestureState{}
	t.host.ShowStatus(StatusEllipseActive)
}

// Deactivate 工具停用：停止重绘任务并清空预览，未在绘制时不做任何事
func (t *EllipseTool) Deactivate() {
	if !t.stopTimer() {
		return
	}
	clearPreview(t.host)
	t.state = gestureState{}
}

// Dragging 是否处于绘制手势中
func (t *EllipseTool) Dragging() bool {
	return t.timerRunning()
}

// PointerDown 开始绘制
// 单击后移动过的手势仍在进行时，这次按下作为结束点，锚点保持不变。
func (t *EllipseTool) PointerDown(ev PointerEvent) bool {
	t.state.constrain = ev.Shift

	if t.pending() {
		t.state.dirty = true
		return true
	}

	t.state.anchor = Point{X: ev.X, Y: ev.Y}
	t.state.dragged = false

	if !t.timerRunning() {
		delay := t.host.Settings().DrawDelay
		t.state.timer = t.host.Scheduler().Every(delay, t.Tick)
		logging.Logger().Debug("椭圆: 启动重绘任务", "delay", delay)
	}
	t.state.dirty = false

	t.host.ShowStatus(StatusEllipseMousedown)
	return true
}

// PointerMove 记录 Shift 状态并标记需要重绘，实际绘制由 Tick 完成
func (t *EllipseTool) PointerMove(ev PointerEvent) {
	t.state.constrain = ev.Shift
	t.state.dirty = true

	if t.timerRunning() && (Point{X: ev.X, Y: ev.Y}) != t.state.anchor {
		t.state.dragged = true
	}
}

// Tick 重绘预览（由重绘任务周期调用）
func (t *EllipseTool) Tick() {
	if !t.state.dirty {
		return
	}

	clearPreview(t.host)

	pointer := t.host.Pointer().Position()
	r := DragRect(t.state.anchor, pointer)
	if r.Empty() {
		return
	}

	if t.state.constrain {
		r = ConstrainSquare(r, t.state.anchor, pointer)
	}

	s := t.host.Surface()
	TraceEllipse(s, r)
	PaintShape(s, t.host.Settings().Shape)

	t.state.dirty = false
}

// PointerUp 结束绘制并提交
// 指针未离开起始点时视为单击，保持当前状态，
// 以支持"单击 → 移动 → 单击"的绘制方式。
func (t *EllipseTool) PointerUp(ev PointerEvent) bool {
	// 没有进行中的手势（已取消、已停用或新建的工具）
	if !t.timerRunning() {
		return false
	}

	if t.host.Pointer().Position() == t.state.anchor {
		if t.state.dragged {
			// 拖动后回到起始点松开：椭圆退化，放弃本次绘制
			t.stopTimer()
			clearPreview(t.host)
			t.state.dirty = false
			t.state.dragged = false
			t.state.clicked = false
			t.host.ShowStatus(StatusEllipseActive)
			return true
		}
		t.state.clicked = true
		return true
	}

	t.stopTimer()

	t.state.dirty = true
	t.Tick()
	t.host.CommitPreview()
	t.state.dragged = false
	t.state.clicked = false

	t.host.ShowStatus(StatusEllipseActive)
	return true
}

// KeyDown 按住鼠标时按 Escape 取消绘制
func (t *EllipseTool) KeyDown(ev KeyEvent) bool {
	if !t.host.Pointer().ButtonDown || ev.Key != KeyEscape {
		return false
	}

	t.stopTimer()
	clearPreview(t.host)
	t.host.SetButtonDown(false)
	t.state.dirty = false
	t.state.dragged = false
	t.state.clicked = false

	t.host.ShowStatus(StatusEllipseActive)
	return true
}

// pending 单击后松开，手势仍在等待结束点
func (t *EllipseTool) pending() bool {
	return t.timerRunning() && t.state.clicked
}

func (t *EllipseTool) timerRunning() bool {
	return t.state.timer != nil && t.state.timer.Active()
}

// stopTimer 停止重绘任务，返回任务之前是否在运行
func (t *EllipseTool) stopTimer() bool {
	if t.state.timer == nil {
		return false
	}
	running := t.state.timer.Active()
	t.state.timer.Stop()
	t.state.timer = nil
	t.state.dirty = false
	return running
}
