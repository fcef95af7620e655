package script

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapdraw/internal/annotate"
	"snapdraw/internal/canvas"
	"snapdraw/internal/schedule"
)

func TestParse(t *testing.T) {
	src := `
# 画一个圆
tool ellipse
down 10 10
move 110 60 shift   # 按住 Shift
wait 25ms
tick
tick 3
up 110 60
key Escape
`
	steps, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	want := []Step{
		{Line: 3, Op: OpTool, Name: "ellipse"},
		{Line: 4, Op: OpDown, X: 10, Y: 10},
		{Line: 5, Op: OpMove, X: 110, Y: 60, Shift: true},
		{Line: 6, Op: OpWait, Wait: 25 * time.Millisecond},
		{Line: 7, Op: OpTick, Count: 1},
		{Line: 8, Op: OpTick, Count: 3},
		{Line: 9, Op: OpUp, X: 110, Y: 60},
		{Line: 10, Op: OpKey, Name: "Escape"},
	}
	assert.Equal(t, want, steps)
}

func TestParseQuoted(t *testing.T) {
	steps, err := Parse(strings.NewReader(`tool "ellipse"`))
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "ellipse", steps[0].Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line string
	}{
		{"unknown command", "jump 1 2", "第 1 行"},
		{"missing coordinate", "tool ellipse\ndown 10", "第 2 行"},
		{"bad coordinate", "move x 1", "第 1 行"},
		{"bad modifier", "down 1 2 ctrl", "第 1 行"},
		{"up with modifier", "up 1 2 shift", "第 1 行"},
		{"bad duration", "wait soon", "第 1 行"},
		{"negative duration", "wait -5ms", "第 1 行"},
		{"bad tick count", "tick 0", "第 1 行"},
		{"unterminated quote", "\n\ntool \"ellipse", "第 3 行"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "move 1.5 2 shift", Step{Op: OpMove, X: 1.5, Y: 2, Shift: true}.String())
	assert.Equal(t, "up 3 4", Step{Op: OpUp, X: 3, Y: 4}.String())
	assert.Equal(t, "wait 25ms", Step{Op: OpWait, Wait: 25 * time.Millisecond}.String())
	assert.Equal(t, "key Escape", Step{Op: OpKey, Name: "Escape"}.String())
}

type call struct {
	name string
	args []any
}

type fakeTarget struct {
	calls   []call
	toolErr error
}

func (f *fakeTarget) SetTool(name string) error {
	f.calls = append(f.calls, call{"tool", []any{name}})
	return f.toolErr
}

func (f *fakeTarget) PointerDown(x, y float64, shift bool) bool {
	f.calls = append(f.calls, call{"down", []any{x, y, shift}})
	return true
}

func (f *fakeTarget) PointerMove(x, y float64, shift bool) {
	f.calls = append(f.calls, call{"move", []any{x, y, shift}})
}

func (f *fakeTarget) PointerUp(x, y float64) bool {
	f.calls = append(f.calls, call{"up", []any{x, y}})
	return true
}

func (f *fakeTarget) KeyDown(key string) bool {
	f.calls = append(f.calls, call{"key", []any{key}})
	return true
}

func TestPlayerDispatch(t *testing.T) {
	steps, err := Parse(strings.NewReader("tool ellipse\ndown 1 2\nmove 3 4 shift\nwait 50ms\ntick 2\nup 3 4\nkey Escape"))
	require.NoError(t, err)

	target := &fakeTarget{}
	clock := schedule.NewManual()
	ticks := 0
	clock.Every(time.Hour, func() { ticks++ })

	require.NoError(t, NewPlayer(target, ManualClock(clock)).Play(context.Background(), steps))

	assert.Equal(t, []call{
		{"tool", []any{"ellipse"}},
		{"down", []any{1.0, 2.0, false}},
		{"move", []any{3.0, 4.0, true}},
		{"up", []any{3.0, 4.0}},
		{"key", []any{"Escape"}},
	}, target.calls)
	assert.Equal(t, 50*time.Millisecond, clock.Now())
	assert.Equal(t, 2, ticks)
}

func TestPlayerToolError(t *testing.T) {
	steps, err := Parse(strings.NewReader("down 1 1\ntool pencil\nup 2 2"))
	require.NoError(t, err)

	boom := errors.New("boom")
	target := &fakeTarget{toolErr: boom}
	err = NewPlayer(target, ManualClock(schedule.NewManual())).Play(context.Background(), steps)

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "第 2 行")
	assert.Len(t, target.calls, 2, "出错后停止回放")
}

func TestPlayerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := &fakeTarget{}
	err := NewPlayer(target, ManualClock(schedule.NewManual())).Play(ctx, []Step{{Op: OpDown}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, target.calls)
}

func newCanvas(t *testing.T, sched schedule.Scheduler) *canvas.Canvas {
	t.Helper()
	c, err := canvas.New(canvas.Options{
		Width:      200,
		Height:     100,
		Background: gg.Hex("#ffffff"),
		Style:      canvas.Style{Fill: gg.Hex("#ff0000"), Stroke: gg.Hex("#000000"), LineWidth: 2},
		Settings:   annotate.DefaultSettings(),
		Scheduler:  sched,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestReplayOnCanvas(t *testing.T) {
	src := `tool ellipse
down 10 10
move 110 60
wait 25ms
up 110 60

down 20 20
move 150 90 shift
wait 25ms
key Escape
up 150 90
`
	steps, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	clock := schedule.NewManual()
	c := newCanvas(t, clock)
	require.NoError(t, NewPlayer(c, ManualClock(clock)).Play(context.Background(), steps))

	assert.Equal(t, 1, c.Commits())
	assert.Equal(t, 2, clock.Started())
	assert.Equal(t, 0, clock.ActiveCount())
	assert.Equal(t, annotate.StatusEllipseActive, c.Status())

	_, _, _, a := c.Snapshot().At(60, 35).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	r, g, _, _ := c.Snapshot().At(60, 35).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g, "椭圆中心为填充色")
}

func TestOnLoop(t *testing.T) {
	loop := schedule.NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	c := newCanvas(t, loop)
	target := OnLoop(loop, c)

	require.NoError(t, target.SetTool(annotate.ToolEllipse))
	assert.True(t, target.PointerDown(10, 10, false))
	target.PointerMove(110, 60, false)
	assert.True(t, target.PointerUp(110, 60))
	assert.False(t, target.KeyDown(annotate.KeyEscape))

	loop.Close()
	require.NoError(t, <-done)

	assert.Equal(t, 1, c.Commits())
	assert.ErrorIs(t, target.SetTool(annotate.ToolEllipse), ErrLoopClosed)
}

func TestWallClock(t *testing.T) {
	ctx := context.Background()
	start := time.Now()
	require.NoError(t, WallClock{Period: time.Millisecond}.Tick(ctx))
	require.NoError(t, WallClock{}.Advance(ctx, time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestWallClockCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	start := time.Now()
	err := WallClock{}.Advance(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestPlayerInterruptsWait(t *testing.T) {
	steps, err := Parse(strings.NewReader("down 1 1\nwait 1h\nup 2 2"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	target := &fakeTarget{}
	err = NewPlayer(target, WallClock{}).Play(ctx, steps)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "第 2 行")
	assert.Len(t, target.calls, 1, "等待被中断后不再分发")
}

func TestManualClockCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := schedule.NewManual()
	clock := ManualClock(m)
	assert.ErrorIs(t, clock.Advance(ctx, time.Second), context.Canceled)
	assert.ErrorIs(t, clock.Tick(ctx), context.Canceled)
	assert.Zero(t, m.Now())
}
