package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snapdraw/internal/logging"
	"snapdraw/internal/schedule"
)

// ErrLoopClosed 事件循环已关闭
var ErrLoopClosed = errors.New("事件循环已关闭")

// Target 接收回放事件的画布
type Target interface {
	SetTool(name string) error
	PointerDown(x, y float64, shift bool) bool
	PointerMove(x, y float64, shift bool)
	PointerUp(x, y float64) bool
	KeyDown(key string) bool
}

// Clock 回放时钟，等待可被 ctx 中断
type Clock interface {
	Advance(ctx context.Context, d time.Duration) error
	Tick(ctx context.Context) error
}

// manualClock 将虚拟时钟适配为 Clock，推进不阻塞
type manualClock struct {
	m *schedule.Manual
}

// ManualClock 使用虚拟时钟回放
func ManualClock(m *schedule.Manual) Clock {
	return manualClock{m: m}
}

func (c manualClock) Advance(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.m.Advance(d)
	return nil
}

func (c manualClock) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.m.Tick()
	return nil
}

// Player 按顺序回放脚本
type Player struct {
	target Target
	clock  Clock
}

// NewPlayer 创建回放器
func NewPlayer(t Target, c Clock) *Player {
	return &Player{target: t, clock: c}
}

// Play 回放全部命令，ctx 结束时在下一条命令前或等待中返回
func (p *Player) Play(ctx context.Context, steps []Step) error {
	log := logging.Logger()

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.apply(ctx, step); err != nil {
			return fmt.Errorf("第 %d 行 %q: %w", step.Line, step.String(), err)
		}
		log.Debug("回放", "line", step.Line, "step", step.String())
	}

	return nil
}

func (p *Player) apply(ctx context.Context, step Step) error {
	switch step.Op {
	case OpTool:
		return p.target.SetTool(step.Name)
	case OpDown:
		p.target.PointerDown(step.X, step.Y, step.Shift)
	case OpMove:
		p.target.PointerMove(step.X, step.Y, step.Shift)
	case OpUp:
		p.target.PointerUp(step.X, step.Y)
	case OpKey:
		p.target.KeyDown(step.Name)
	case OpWait:
		return p.clock.Advance(ctx, step.Wait)
	case OpTick:
		for i := 0; i < step.Count; i++ {
			if err := p.clock.Tick(ctx); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("未知命令 %s", step.Op)
	}
	return nil
}

// loopTarget 将事件投递到事件循环上执行
type loopTarget struct {
	loop   *schedule.Loop
	target Target
}

// OnLoop 返回在 loop 上执行 t 的 Target，调用方不能位于 loop goroutine 内
func OnLoop(loop *schedule.Loop, t Target) Target {
	return &loopTarget{loop: loop, target: t}
}

func (l *loopTarget) SetTool(name string) error {
	var err error
	if !l.loop.Do(func() { err = l.target.SetTool(name) }) {
		return ErrLoopClosed
	}
	return err
}

func (l *loopTarget) PointerDown(x, y float64, shift bool) bool {
	var handled bool
	l.loop.Do(func() { handled = l.target.PointerDown(x, y, shift) })
	return handled
}

func (l *loopTarget) PointerMove(x, y float64, shift bool) {
	l.loop.Do(func() { l.target.PointerMove(x, y, shift) })
}

func (l *loopTarget) PointerUp(x, y float64) bool {
	var handled bool
	l.loop.Do(func() { handled = l.target.PointerUp(x, y) })
	return handled
}

func (l *loopTarget) KeyDown(key string) bool {
	var handled bool
	l.loop.Do(func() { handled = l.target.KeyDown(key) })
	return handled
}

// WallClock 真实时间时钟，配合 schedule.Loop 使用
type WallClock struct {
	Period time.Duration // Tick 等待的时长，默认 schedule.DefaultPeriod
}

// Advance 等待 d，ctx 结束时提前返回
func (c WallClock) Advance(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tick 等待一个重绘周期
func (c WallClock) Tick(ctx context.Context) error {
	d := c.Period
	if d <= 0 {
		d = schedule.DefaultPeriod
	}
	return c.Advance(ctx, d)
}
