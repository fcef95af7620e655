package annotate

import "math"

// Kappa 用三次贝塞尔曲线逼近四分之一圆弧的控制点系数
const Kappa = 4 * (math.Sqrt2 - 1) / 3

// CubicArc 一段三次贝塞尔曲线（起点为上一段的终点）
type CubicArc struct {
	C1, C2, End Point
}

// DragRect 由锚点和当前指针位置得到规范化矩形
func DragRect(anchor, pointer Point) Rect {
	return Rect{
		Min: Point{X: math.Min(anchor.X, pointer.X), Y: math.Min(anchor.Y, pointer.Y)},
		Max: Point{X: math.Max(anchor.X, pointer.X), Y: math.Max(anchor.Y, pointer.Y)},
	}
}

// ConstrainSquare 将矩形约束为正方形
// 较长边收缩到较短边的长度；锚点所在的边保持不动，
// 指针一侧的边移动，使锚点角固定。
func ConstrainSquare(r Rect, anchor, pointer Point) Rect {
	w, h := r.Dx(), r.Dy()
	switch {
	case w > h:
		if pointer.X < anchor.X {
			r.Min.X = r.Max.X - h
		} else {
			r.Max.X = r.Min.X + h
		}
	case h > w:
		if pointer.Y < anchor.Y {
			r.Min.Y = r.Max.Y - w
		} else {
			r.Max.Y = r.Min.Y + w
		}
	}
	return r
}

// EllipsePath 计算内切于 r 的椭圆路径
// 从顶边中点开始，顺时针经过右、下、左，回到顶边中点。
func EllipsePath(r Rect) (Point, [4]CubicArc) {
	c := r.Center()
	kx := r.Dx() / 2 * Kappa
	ky := r.Dy() / 2 * Kappa

	start := Point{X: c.X, Y: r.Min.Y}
	arcs := [4]CubicArc{
		{ // 上 → 右
			C1:  Point{X: c.X + kx, Y: r.Min.Y},
			C2:  Point{X: r.Max.X, Y: c.Y - ky},
			End: Point{X: r.Max.X, Y: c.Y},
		},
		{ // 右 → 下
			C1:  Point{X: r.Max.X, Y: c.Y + ky},
			C2:  Point{X: c.X + kx, Y: r.Max.Y},
			End: Point{X: c.X, Y: r.Max.Y},
		},
		{ // 下 → 左
			C1:  Point{X: c.X - kx, Y: r.Max.Y},
			C2:  Point{X: r.Min.X, Y: c.Y + ky},
			End: Point{X: r.Min.X, Y: c.Y},
		},
		{ // 左 → 上
			C1:  Point{X: r.Min.X, Y: c.Y - ky},
			C2:  Point{X: c.X - kx, Y: r.Min.Y},
			End: start,
		},
	}
	return start, arcs
}
