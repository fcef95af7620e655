package canvas

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"snapdraw/internal/annotate"
	"snapdraw/internal/logging"
)

// previewSurface 基于 gg.Context 的预览表面
// Fill / Stroke 使用 Preserve 版本，保留路径，与 2D canvas 语义一致。
type previewSurface struct {
	dc        *gg.Context
	width     int
	height    int
	fill      gg.RGBA
	stroke    gg.RGBA
	lineWidth float64
}

var _ annotate.Surface = (*previewSurface)(nil)

func newPreviewSurface(width, height int, st Style) *previewSurface {
	s := &previewSurface{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
	}
	s.setStyle(st)
	return s
}

func (s *previewSurface) setStyle(st Style) {
	s.fill = st.Fill
	s.stroke = st.Stroke
	s.lineWidth = st.LineWidth
}

// ClearRect 将矩形区域置为透明，覆盖整个表面时直接整体清空
func (s *previewSurface) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= float64(s.width) && y+h >= float64(s.height) {
		s.dc.Clear()
		return
	}

	x0 := max(0, int(math.Floor(x)))
	y0 := max(0, int(math.Floor(y)))
	x1 := min(s.width, int(math.Ceil(x+w)))
	y1 := min(s.height, int(math.Ceil(y+h)))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			s.dc.SetPixel(px, py, gg.Transparent)
		}
	}
}

func (s *previewSurface) BeginPath() {
	s.dc.ClearPath()
}

func (s *previewSurface) MoveTo(x, y float64) {
	s.dc.MoveTo(x, y)
}

func (s *previewSurface) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

func (s *previewSurface) ClosePath() {
	s.dc.ClosePath()
}

func (s *previewSurface) Fill() {
	s.dc.SetFillBrush(gg.Solid(s.fill))
	if err := s.dc.FillPreserve(); err != nil {
		logging.Logger().Warn("预览填充失败", "err", err)
	}
}

func (s *previewSurface) Stroke() {
	s.dc.SetLineWidth(s.lineWidth)
	s.dc.SetStrokeBrush(gg.Solid(s.stroke))
	if err := s.dc.StrokePreserve(); err != nil {
		logging.Logger().Warn("预览描边失败", "err", err)
	}
}

// image 预览内容的副本
func (s *previewSurface) image() image.Image {
	return s.dc.Image()
}

func (s *previewSurface) clear() {
	s.dc.ClearPath()
	s.dc.Clear()
}

func (s *previewSurface) close() error {
	return s.dc.Close()
}
