package annotate

import (
	"fmt"
	"strings"
	"time"
)

// Point 图像坐标系中的点
type Point struct {
	X, Y float64
}

// Rect 规范化矩形（Min <= Max）
type Rect struct {
	Min, Max Point
}

// Dx 宽度
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy 高度
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty 宽或高为零
func (r Rect) Empty() bool { return r.Dx() == 0 || r.Dy() == 0 }

// Center 中心点
func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Dx()/2, Y: r.Min.Y + r.Dy()/2}
}

// ShapeType 形状绘制方式
type ShapeType int

const (
	ShapeBoth   ShapeType = iota // 填充 + 描边
	ShapeFill                    // 仅填充
	ShapeStroke                  // 仅描边
)

var shapeNames = map[ShapeType]string{
	ShapeBoth:   "both",
	ShapeFill:   "fill",
	ShapeStroke: "stroke",
}

func (s ShapeType) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ShapeType(%d)", int(s))
}

// Fills 是否需要填充
func (s ShapeType) Fills() bool { return s != ShapeStroke }

// Strokes 是否需要描边
func (s ShapeType) Strokes() bool { return s != ShapeFill }

// ParseShapeType 解析形状类型，接受 fill / stroke / both / fill+stroke
func ParseShapeType(s string) (ShapeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fill":
		return ShapeFill, nil
	case "stroke":
		return ShapeStroke, nil
	case "both", "fill+stroke", "stroke+fill", "":
		return ShapeBoth, nil
	}
	return ShapeBoth, fmt.Errorf("未知的形状类型 %q", s)
}

// Pointer 指针状态快照（宿主拥有，工具只读）
type Pointer struct {
	X, Y       float64
	ButtonDown bool
}

// Position 指针位置
func (p Pointer) Position() Point {
	return Point{X: p.X, Y: p.Y}
}

// PointerEvent 指针事件
type PointerEvent struct {
	X, Y  float64
	Shift bool // Shift 键是否按下
}

// KeyEvent 键盘事件
type KeyEvent struct {
	Key string // 键名，如 "Escape"
}

// KeyEscape Escape 键名
const KeyEscape = "Escape"

// DefaultDrawDelay 默认重绘间隔
const DefaultDrawDelay = 25 * time.Millisecond

// Settings 工具配置
type Settings struct {
	DrawDelay time.Duration // 预览重绘间隔
	Shape     ShapeType     // 形状绘制方式
}

// DefaultSettings 返回默认工具配置
func DefaultSettings() Settings {
	return Settings{
		DrawDelay: DefaultDrawDelay,
		Shape:     ShapeBoth,
	}
}

// 状态栏消息 ID
const (
	StatusEllipseActive    = "ellipseActive"    // 椭圆工具就绪
	StatusEllipseMousedown = "ellipseMousedown" // 椭圆绘制中
)
