package annotate

import (
	"snapdraw/internal/schedule"
)

// surfaceOp 记录的一次绘图调用
type surfaceOp struct {
	name string
	args []float64
}

type recordingSurface struct {
	ops []surfaceOp
}

func (s *recordingSurface) record(name string, args ...float64) {
	s.ops = append(s.ops, surfaceOp{name: name, args: args})
}

func (s *recordingSurface) ClearRect(x, y, w, h float64) { s.record("clearRect", x, y, w, h) }
func (s *recordingSurface) BeginPath()                   { s.record("beginPath") }
func (s *recordingSurface) MoveTo(x, y float64)          { s.record("moveTo", x, y) }

func (s *recordingSurface) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.record("cubicTo", c1x, c1y, c2x, c2y, x, y)
}

func (s *recordingSurface) ClosePath() { s.record("closePath") }
func (s *recordingSurface) Fill()      { s.record("fill") }
func (s *recordingSurface) Stroke()    { s.record("stroke") }

func (s *recordingSurface) count(name string) int {
	n := 0
	for _, op := range s.ops {
		if op.name == name {
			n++
		}
	}
	return n
}

func (s *recordingSurface) find(name string) []surfaceOp {
	var found []surfaceOp
	for _, op := range s.ops {
		if op.name == name {
			found = append(found, op)
		}
	}
	return found
}

func (s *recordingSurface) reset() { s.ops = nil }

type fakeHost struct {
	pointer  Pointer
	surface  *recordingSurface
	width    int
	height   int
	commits  int
	statuses []string
	settings Settings
	sched    *schedule.Manual
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		surface:  &recordingSurface{},
		width:    200,
		height:   100,
		settings: DefaultSettings(),
		sched:    schedule.NewManual(),
	}
}

func (h *fakeHost) Pointer() Pointer              { return h.pointer }
func (h *fakeHost) SetButtonDown(down bool)       { h.pointer.ButtonDown = down }
func (h *fakeHost) Surface() Surface              { return h.surface }
func (h *fakeHost) ImageSize() (int, int)         { return h.width, h.height }
func (h *fakeHost) CommitPreview()                { h.commits++ }
func (h *fakeHost) ShowStatus(id string)          { h.statuses = append(h.statuses, id) }
func (h *fakeHost) Settings() Settings            { return h.settings }
func (h *fakeHost) Scheduler() schedule.Scheduler { return h.sched }

func (h *fakeHost) lastStatus() string {
	if len(h.statuses) == 0 {
		return ""
	}
	return h.statuses[len(h.statuses)-1]
}

// 以下辅助方法模拟宿主：先更新指针状态，再分发给工具

func (h *fakeHost) down(t Tool, x, y float64, shift bool) bool {
	h.pointer = Pointer{X: x, Y: y, ButtonDown: true}
	return t.PointerDown(PointerEvent{X: x, Y: y, Shift: shift})
}

func (h *fakeHost) move(t Tool, x, y float64, shift bool) {
	h.pointer.X, h.pointer.Y = x, y
	t.PointerMove(PointerEvent{X: x, Y: y, Shift: shift})
}

func (h *fakeHost) up(t Tool, x, y float64) bool {
	h.pointer = Pointer{X: x, Y: y}
	return t.PointerUp(PointerEvent{X: x, Y: y})
}
