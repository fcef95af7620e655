package schedule

import "time"

// DefaultPeriod 周期非正时使用的默认间隔
const DefaultPeriod = 25 * time.Millisecond

// Handle 周期任务句柄
type Handle interface {
	// Stop 停止任务，可重复调用
	Stop()
	// Active 任务是否仍在运行
	Active() bool
}

// Scheduler 周期任务调度接口
type Scheduler interface {
	// Every 每隔 d 执行一次 fn，直到返回的句柄被停止
	Every(d time.Duration, fn func()) Handle
}

func normalizePeriod(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultPeriod
	}
	return d
}
