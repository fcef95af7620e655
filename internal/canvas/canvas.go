package canvas

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"snapdraw/internal/annotate"
	"snapdraw/internal/config"
	"snapdraw/internal/logging"
	"snapdraw/internal/notify"
	"snapdraw/internal/schedule"
)

// Style 预览绘制样式
type Style struct {
	Fill      gg.RGBA
	Stroke    gg.RGBA
	LineWidth float64
}

// Options 画布参数
type Options struct {
	Width      int
	Height     int
	Background gg.RGBA
	Style      Style
	Settings   annotate.Settings
	Scheduler  schedule.Scheduler // 重绘任务调度器，必填
	Registry   *annotate.Registry // 为 nil 时使用内置工具
	Status     *notify.Status     // 为 nil 时不推送状态消息
}

// OptionsFromConfig 由配置生成画布参数
func OptionsFromConfig(cfg *config.Config, sched schedule.Scheduler, status *notify.Status) Options {
	fill, stroke, bg := cfg.Colors()
	return Options{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		Background: bg,
		Style:      Style{Fill: fill, Stroke: stroke, LineWidth: cfg.Style.LineWidth},
		Settings:   cfg.ToolSettings(),
		Scheduler:  sched,
		Status:     status,
	}
}

// Canvas 画布：持久图层 + 预览表面 + 指针状态 + 当前工具
// 实现 annotate.Host。所有方法必须在同一个事件循环 goroutine 上调用。
type Canvas struct {
	width    int
	height   int
	layer    *image.RGBA
	preview  *previewSurface
	pointer  annotate.Pointer
	settings annotate.Settings
	sched    schedule.Scheduler
	registry *annotate.Registry
	status   *notify.Status

	tool       annotate.Tool
	toolName   string
	commits    int
	lastStatus string
}

var _ annotate.Host = (*Canvas)(nil)

// New 创建画布
func New(opts Options) (*Canvas, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("无效的画布尺寸 %dx%d", opts.Width, opts.Height)
	}
	if opts.Scheduler == nil {
		return nil, errors.New("缺少调度器")
	}
	if opts.Registry == nil {
		opts.Registry = annotate.DefaultRegistry()
	}
	if opts.Settings.DrawDelay <= 0 {
		opts.Settings.DrawDelay = annotate.DefaultDrawDelay
	}

	layer := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.Draw(layer, layer.Bounds(), image.NewUniform(opts.Background.Color()), image.Point{}, xdraw.Src)

	return &Canvas{
		width:    opts.Width,
		height:   opts.Height,
		layer:    layer,
		preview:  newPreviewSurface(opts.Width, opts.Height, opts.Style),
		settings: opts.Settings,
		sched:    opts.Scheduler,
		registry: opts.Registry,
		status:   opts.Status,
	}, nil
}

// SetTool 切换工具：停用当前工具，创建并激活新工具
func (c *Canvas) SetTool(name string) error {
	t, err := c.registry.New(name, c)
	if err != nil {
		return err
	}

	if c.tool != nil {
		c.tool.Deactivate()
	}
	// 旧工具的手势随停用结束，之后的松开不再分发给新工具
	c.pointer.ButtonDown = false
	c.tool = t
	c.toolName = name
	t.Activate()

	logging.Logger().Info("工具已切换", "tool", name)
	return nil
}

// ToolName 当前工具名
func (c *Canvas) ToolName() string {
	return c.toolName
}

// PointerDown 鼠标按下
func (c *Canvas) PointerDown(x, y float64, shift bool) bool {
	x, y = c.clamp(x, y)
	c.pointer = annotate.Pointer{X: x, Y: y, ButtonDown: true}
	if c.tool == nil {
		return false
	}
	return c.tool.PointerDown(annotate.PointerEvent{X: x, Y: y, Shift: shift})
}

// PointerMove 鼠标移动
func (c *Canvas) PointerMove(x, y float64, shift bool) {
	x, y = c.clamp(x, y)
	c.pointer.X, c.pointer.Y = x, y
	if c.tool == nil {
		return
	}
	c.tool.PointerMove(annotate.PointerEvent{X: x, Y: y, Shift: shift})
}

// PointerUp 鼠标松开，按键已被工具释放（如 Escape 取消）时不再分发
func (c *Canvas) PointerUp(x, y float64) bool {
	x, y = c.clamp(x, y)
	wasDown := c.pointer.ButtonDown
	c.pointer = annotate.Pointer{X: x, Y: y}
	if c.tool == nil || !wasDown {
		return false
	}
	return c.tool.PointerUp(annotate.PointerEvent{X: x, Y: y})
}

// KeyDown 按键，返回工具是否处理
func (c *Canvas) KeyDown(key string) bool {
	if c.tool == nil {
		return false
	}
	return c.tool.KeyDown(annotate.KeyEvent{Key: key})
}

// clamp 将坐标限制在图像范围内
func (c *Canvas) clamp(x, y float64) (float64, float64) {
	x = math.Max(0, math.Min(x, float64(c.width)))
	y = math.Max(0, math.Min(y, float64(c.height)))
	return x, y
}

// ApplyConfig 应用新配置（尺寸与背景不变）
func (c *Canvas) ApplyConfig(cfg *config.Config) {
	fill, stroke, _ := cfg.Colors()
	c.preview.setStyle(Style{Fill: fill, Stroke: stroke, LineWidth: cfg.Style.LineWidth})
	c.settings = cfg.ToolSettings()
}

// ---------- annotate.Host ----------

// Pointer 实现 annotate.Host
func (c *Canvas) Pointer() annotate.Pointer {
	return c.pointer
}

// SetButtonDown 实现 annotate.Host
func (c *Canvas) SetButtonDown(down bool) {
	c.pointer.ButtonDown = down
}

// Surface 实现 annotate.Host
func (c *Canvas) Surface() annotate.Surface {
	return c.preview
}

// ImageSize 实现 annotate.Host
func (c *Canvas) ImageSize() (int, int) {
	return c.width, c.height
}

// CommitPreview 将预览合成到图层并清空预览
func (c *Canvas) CommitPreview() {
	src := c.preview.image()
	xdraw.Copy(c.layer, image.Point{}, src, src.Bounds(), xdraw.Over, nil)
	c.preview.clear()
	c.commits++

	logging.Logger().Debug("预览已提交", "commits", c.commits)
}

// ShowStatus 实现 annotate.Host
func (c *Canvas) ShowStatus(id string) {
	c.lastStatus = id
	if c.status == nil {
		return
	}
	if err := c.status.Show(id); err != nil {
		logging.Logger().Warn("状态消息发送失败", "id", id, "err", err)
	}
}

// Settings 实现 annotate.Host
func (c *Canvas) Settings() annotate.Settings {
	return c.settings
}

// Scheduler 实现 annotate.Host
func (c *Canvas) Scheduler() schedule.Scheduler {
	return c.sched
}

// ---------- 结果 ----------

// Layer 持久图层（直接引用）
func (c *Canvas) Layer() *image.RGBA {
	return c.layer
}

// Snapshot 图层副本，不含未提交的预览
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.layer.Bounds())
	copy(out.Pix, c.layer.Pix)
	return out
}

// Preview 预览内容副本
func (c *Canvas) Preview() image.Image {
	return c.preview.image()
}

// Status 最后一条状态消息 ID
func (c *Canvas) Status() string {
	return c.lastStatus
}

// Commits 已提交次数
func (c *Canvas) Commits() int {
	return c.commits
}

// Close 停用当前工具并释放预览表面
func (c *Canvas) Close() error {
	if c.tool != nil {
		c.tool.Deactivate()
		c.tool = nil
	}
	return c.preview.close()
}
