package schedule

import "time"

// Manual 手动推进时间的调度器，用于测试和脚本回放
// 非并发安全：所有方法必须在同一个 goroutine 上调用。
type Manual struct {
	now     time.Duration
	tasks   []*manualTask
	started int
}

type manualTask struct {
	period  time.Duration
	next    time.Duration
	fn      func()
	stopped bool
}

func (t *manualTask) Stop()        { t.stopped = true }
func (t *manualTask) Active() bool { return !t.stopped }

// NewManual 创建手动调度器
func NewManual() *Manual {
	return &Manual{}
}

// Every 实现 Scheduler
func (m *Manual) Every(d time.Duration, fn func()) Handle {
	d = normalizePeriod(d)
	t := &manualTask{period: d, next: m.now + d, fn: fn}
	m.tasks = append(m.tasks, t)
	m.started++
	return t
}

// Advance 推进虚拟时间，按到期顺序触发任务
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.period
		t.fn()
	}
	m.now = target
	m.prune()
}

// Tick 立即触发每个活动任务一次
func (m *Manual) Tick() {
	tasks := make([]*manualTask, len(m.tasks))
	copy(tasks, m.tasks)
	for _, t := range tasks {
		if !t.stopped {
			t.fn()
		}
	}
	m.prune()
}

// Now 当前虚拟时间
func (m *Manual) Now() time.Duration {
	return m.now
}

// Started 累计创建的任务数
func (m *Manual) Started() int {
	return m.started
}

// ActiveCount 当前活动任务数
func (m *Manual) ActiveCount() int {
	n := 0
	for _, t := range m.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// nextDue 返回在 target 之前最早到期的活动任务
func (m *Manual) nextDue(target time.Duration) *manualTask {
	var due *manualTask
	for _, t := range m.tasks {
		if t.stopped || t.next > target {
			continue
		}
		if due == nil || t.next < due.next {
			due = t
		}
	}
	return due
}

func (m *Manual) prune() {
	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(m.tasks); i++ {
		m.tasks[i] = nil
	}
	m.tasks = kept
}
