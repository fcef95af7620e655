package annotate

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownTool 工具未注册
	ErrUnknownTool = errors.New("未注册的工具")
	// ErrDuplicateTool 工具名已被注册
	ErrDuplicateTool = errors.New("工具名已注册")
)

// Tool 交互工具
// 所有方法都在宿主事件循环上调用。
type Tool interface {
	Activate()
	Deactivate()
	// PointerDown 返回 true 表示宿主可继续默认处理
	PointerDown(ev PointerEvent) bool
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent) bool
	// KeyDown 返回是否处理了该按键
	KeyDown(ev KeyEvent) bool
}

// Factory 工具构造函数
type Factory func(h Host) Tool

// Registry 工具注册表（名称 → 构造函数）
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register 注册工具
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("工具名不能为空")
	}
	if f == nil {
		return fmt.Errorf("工具 %q 的构造函数为空", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.factories[name] = f
	return nil
}

// New 按名称创建工具实例
func (r *Registry) New(name string, h Host) (Tool, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return f(h), nil
}

// Names 已注册的工具名（排序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToolEllipse 椭圆工具名
const ToolEllipse = "ellipse"

// DefaultRegistry 返回包含内置工具的注册表
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(ToolEllipse, func(h Host) Tool { return NewEllipseTool(h) })
	return r
}
