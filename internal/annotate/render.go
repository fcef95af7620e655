package annotate

// TraceEllipse 在表面上构造内切于 r 的闭合椭圆路径
func TraceEllipse(s Surface, r Rect) {
	start, arcs := EllipsePath(r)

	s.BeginPath()
	s.MoveTo(start.X, start.Y)
	for _, a := range arcs {
		s.CubicTo(a.C1.X, a.C1.Y, a.C2.X, a.C2.Y, a.End.X, a.End.Y)
	}
	s.ClosePath()
}

// PaintShape 按形状类型填充和/或描边当前路径
func PaintShape(s Surface, shape ShapeType) {
	if shape.Fills() {
		s.Fill()
	}
	if shape.Strokes() {
		s.Stroke()
	}
}

// clearPreview 清空整个预览表面
func clearPreview(h Host) {
	w, ht := h.ImageSize()
	h.Surface().ClearRect(0, 0, float64(w), float64(ht))
}
