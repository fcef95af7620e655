package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop 单 goroutine 事件循环
// 所有投递的函数和周期任务都在 Run 所在的 goroutine 上串行执行，
// 因此事件处理函数与重绘任务之间不需要加锁。
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop 创建事件循环，size 为队列长度
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post 投递一个函数，循环已关闭时返回 false
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// post 与 Post 相同，但 quit 关闭时也放弃投递，队列满时不会阻塞已停止的任务
func (l *Loop) post(quit <-chan struct{}, fn func()) bool {
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	case <-quit:
		return false
	}
}

// Do 投递函数并等待其执行完成
// 不能在循环 goroutine 内部调用，否则会死锁。
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}

	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Run 运行事件循环（阻塞），直到 ctx 结束或 Close 被调用
// 返回时循环即关闭，之后的 Post / Do 均返回 false。
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

// Close 关闭事件循环，可重复调用
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// loopTask Loop 上的周期任务
type loopTask struct {
	stopped atomic.Bool
	pending atomic.Bool
	quit    chan struct{}
	exited  chan struct{} // 计时器 goroutine 退出后关闭
	once    sync.Once
}

func (t *loopTask) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		close(t.quit)
	})
}

func (t *loopTask) Active() bool {
	return !t.stopped.Load()
}

// Every 实现 Scheduler
// 计时器 goroutine 只负责投递；上一次投递尚未执行时新的 tick 会被合并。
// Stop 之后才执行到的 tick 在循环 goroutine 上被丢弃。
func (l *Loop) Every(d time.Duration, fn func()) Handle {
	d = normalizePeriod(d)
	t := &loopTask{quit: make(chan struct{}), exited: make(chan struct{})}

	go func() {
		defer close(t.exited)
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-t.quit:
				return
			case <-l.done:
				return
			case <-ticker.C:
				if !t.pending.CompareAndSwap(false, true) {
					continue
				}
				if !l.post(t.quit, func() {
					t.pending.Store(false)
					if t.stopped.Load() {
						return
					}
					fn()
				}) {
					return
				}
			}
		}
	}()

	return t
}
