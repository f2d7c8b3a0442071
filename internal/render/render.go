package render

import (
	"image"
	"image/color"
	"log"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/path2video/internal/playback"
	"github.com/ivlev/path2video/internal/project"
	"github.com/ivlev/path2video/internal/timeline"
	"github.com/ivlev/path2video/internal/track"
)

// Visual constants shared by every frame
const (
	labelPadding  = 5
	captionHeight = 28
	qrSize        = 96
	qrMargin      = 12
)

var (
	backgroundColor = color.RGBA{A: 255}
	labelBoxColor   = color.RGBA{R: 20, G: 20, B: 20, A: 230}
	labelTextColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	captionColor    = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	zoneColor       = color.RGBA{R: 255, G: 149, B: 0, A: 255}
	zoneAlpha       = 0.35
)

// Renderer draws playback states over a prepared base image. The base
// is scaled and letterboxed once; RenderFrame only composites the
// dynamic layers, so it is cheap enough to call per frame.
type Renderer struct {
	proj    *project.Project
	metrics track.Metrics
	width   int
	height  int
	scale   float64
	offsetX float64
	offsetY float64
	base    *image.RGBA
	qr      image.Image
	face    font.Face
}

// NewRenderer prepares a renderer producing width x height frames
func NewRenderer(baseImg image.Image, proj *project.Project, width, height int) *Renderer {
	r := &Renderer{
		proj:    proj,
		metrics: proj.Metrics(),
		width:   width,
		height:  height,
		face:    basicfont.Face7x13,
	}

	// Aspect-fit the source image and center it
	srcW := float64(baseImg.Bounds().Dx())
	srcH := float64(baseImg.Bounds().Dy())
	r.scale = math.Min(float64(width)/srcW, float64(height)/srcH)
	scaledW := srcW * r.scale
	scaledH := srcH * r.scale
	r.offsetX = (float64(width) - scaledW) / 2
	r.offsetY = (float64(height) - scaledH) / 2

	r.base = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(r.base, r.base.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	target := image.Rect(
		int(r.offsetX), int(r.offsetY),
		int(r.offsetX+scaledW), int(r.offsetY+scaledH),
	)
	draw.CatmullRom.Scale(r.base, target, baseImg, baseImg.Bounds(), draw.Src, nil)

	if proj.Settings.ShareLink != "" {
		q, err := qrcode.New(proj.Settings.ShareLink, qrcode.Medium)
		if err != nil {
			log.Printf("[!] QR code error: %v", err)
		} else {
			r.qr = q.Image(qrSize)
		}
	}

	return r
}

// Size returns the output frame dimensions
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// NewFrame allocates a frame of the renderer's output size
func (r *Renderer) NewFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, r.width, r.height))
}

// RenderFrame composites one frame for the given state. The effective
// time is the elapsed time with the flash prefix subtracted; it is
// negative while the flash is still running.
func (r *Renderer) RenderFrame(dst *image.RGBA, s timeline.Schedule, st playback.State, effective float64) {
	draw.Draw(dst, dst.Bounds(), r.base, image.Point{}, draw.Src)

	r.drawZones(dst, s, st, effective)
	r.drawPath(dst, st.CurrentDistance)
	r.drawLabels(dst, st)
	r.drawCaption(dst, s, effective)

	if r.qr != nil {
		qrRect := image.Rect(
			r.width-qrSize-qrMargin, r.height-qrSize-qrMargin,
			r.width-qrMargin, r.height-qrMargin,
		)
		draw.Draw(dst, qrRect, r.qr, image.Point{}, draw.Over)
	}

	if st.Flashing {
		r.drawFlash(dst, effective)
	}
}

// drawZones fills every revealed area polygon, fading it in over its
// event duration
func (r *Renderer) drawZones(dst *image.RGBA, s timeline.Schedule, st playback.State, effective float64) {
	for _, item := range r.proj.Items {
		if item.Kind != timeline.KindArea || !st.RevealedAreas[item.ID] {
			continue
		}
		if len(item.Polygon) < 3 {
			continue
		}

		alpha := zoneAlpha
		if ev, ok := eventFor(s, item.ID); ok {
			alpha *= playback.Progress(ev, effective)
		}
		if alpha <= 0 {
			continue
		}

		ras := vector.NewRasterizer(r.width, r.height)
		for i, p := range item.Polygon {
			x, y := r.toCanvas(p.X, p.Y)
			if i == 0 {
				ras.MoveTo(float32(x), float32(y))
			} else {
				ras.LineTo(float32(x), float32(y))
			}
		}
		ras.ClosePath()
		ras.Draw(dst, dst.Bounds(), image.NewUniform(withAlpha(zoneColor, alpha)), image.Point{})
	}
}

// drawPath strokes the waypoint path up to the given distance
func (r *Renderer) drawPath(dst *image.RGBA, distance float64) {
	waypoints := r.proj.Waypoints
	if len(waypoints) < 2 {
		return
	}

	// The schedule may report past-end distances after backward
	// references; the geometry stops at the path length
	if distance > r.metrics.TotalLength {
		distance = r.metrics.TotalLength
	}
	if distance <= 0 {
		return
	}

	width := r.proj.Settings.PathWidth * r.scale
	if width < 1.5 {
		width = 1.5
	}

	for i := 0; i+1 < len(waypoints); i++ {
		segStart := r.metrics.Cumulative[i]
		segLen := r.metrics.Cumulative[i+1] - segStart
		if segLen <= 0 || distance <= segStart {
			continue
		}

		covered := distance - segStart
		if covered > segLen {
			covered = segLen
		}

		end := track.PointAt(waypoints, r.metrics, segStart+covered)
		x0, y0 := r.toCanvas(waypoints[i].X, waypoints[i].Y)
		x1, y1 := r.toCanvas(end.X, end.Y)

		col := parseHexColor(track.SegmentColor(waypoints, i, r.proj.Settings.PathColor))

		ras := vector.NewRasterizer(r.width, r.height)
		strokeSegment(ras, x0, y0, x1, y1, width)
		fillDot(ras, x0, y0, width/2)
		fillDot(ras, x1, y1, width/2)
		ras.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
	}
}

// drawLabels draws a text box for every revealed annotation
func (r *Renderer) drawLabels(dst *image.RGBA, st playback.State) {
	for _, item := range r.proj.Items {
		if item.Kind != timeline.KindAnnotation || !st.RevealedAnnotations[item.ID] {
			continue
		}
		if item.Text == "" {
			continue
		}
		if item.PathIndex < 0 || item.PathIndex >= len(r.proj.Waypoints) {
			continue
		}

		wp := r.proj.Waypoints[item.PathIndex]
		x, y := r.toCanvas(wp.X+item.OffsetX, wp.Y+item.OffsetY)

		r.drawLabelBox(dst, item.Text, int(x), int(y))
	}
}

// drawLabelBox draws one label with its background box anchored at the
// given canvas position
func (r *Renderer) drawLabelBox(dst *image.RGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelTextColor),
		Face: r.face,
	}

	textW := d.MeasureString(text).Ceil()
	metrics := r.face.Metrics()
	textH := metrics.Height.Ceil()

	box := image.Rect(
		x-labelPadding, y-labelPadding,
		x+textW+labelPadding, y+textH+labelPadding,
	)
	box = clampRect(box, dst.Bounds())
	fillRect(dst, box, labelBoxColor)

	d.Dot = fixed.P(box.Min.X+labelPadding, box.Min.Y+labelPadding+metrics.Ascent.Ceil())
	d.DrawString(text)
}

// drawCaption shows the active item's comment in a bottom band
func (r *Renderer) drawCaption(dst *image.RGBA, s timeline.Schedule, effective float64) {
	ev, ok := playback.ActiveEvent(s, effective)
	if !ok || ev.ItemID == "" {
		return
	}
	item, ok := r.proj.Item(ev.ItemID)
	if !ok || item.Comment == "" {
		return
	}

	band := image.Rect(0, r.height-captionHeight, r.width, r.height)
	fillRect(dst, band, color.RGBA{A: 180})

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(captionColor),
		Face: r.face,
	}
	textW := d.MeasureString(item.Comment).Ceil()
	d.Dot = fixed.P((r.width-textW)/2, r.height-captionHeight/2+r.face.Metrics().Ascent.Ceil()/2)
	d.DrawString(item.Comment)
}

// drawFlash covers the frame in white, fading out across the flash
// window. Effective time is negative during the flash.
func (r *Renderer) drawFlash(dst *image.RGBA, effective float64) {
	duration := r.proj.Settings.FlashDuration
	if duration <= 0 {
		return
	}

	alpha := -effective / duration
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	fillRect(dst, dst.Bounds(), withAlpha(white, alpha))
}

// toCanvas maps image-space coordinates onto the output frame
func (r *Renderer) toCanvas(x, y float64) (float64, float64) {
	return x*r.scale + r.offsetX, y*r.scale + r.offsetY
}

// strokeSegment appends a width-thick quad for one line segment
func strokeSegment(ras *vector.Rasterizer, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	nx := -dy / length * width / 2
	ny := dx / length * width / 2

	ras.MoveTo(float32(x0+nx), float32(y0+ny))
	ras.LineTo(float32(x1+nx), float32(y1+ny))
	ras.LineTo(float32(x1-nx), float32(y1-ny))
	ras.LineTo(float32(x0-nx), float32(y0-ny))
	ras.ClosePath()
}

// fillDot appends a circle, used to round segment joints and caps
func fillDot(ras *vector.Rasterizer, cx, cy, radius float64) {
	const steps = 16
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / steps
		x := cx + radius*math.Cos(angle)
		y := cy + radius*math.Sin(angle)
		if i == 0 {
			ras.MoveTo(float32(x), float32(y))
		} else {
			ras.LineTo(float32(x), float32(y))
		}
	}
	ras.ClosePath()
}

// eventFor finds the reveal event carrying the given item id
func eventFor(s timeline.Schedule, id string) (timeline.Event, bool) {
	for _, ev := range s.Events {
		if ev.ItemID == id {
			return ev, true
		}
	}
	return timeline.Event{}, false
}

// fillRect composites a uniform color over the rectangle
func fillRect(dst *image.RGBA, rect image.Rectangle, col color.RGBA) {
	draw.Draw(dst, rect, image.NewUniform(col), image.Point{}, draw.Over)
}

// clampRect shifts and trims a rectangle into the given bounds
func clampRect(rect, bounds image.Rectangle) image.Rectangle {
	if rect.Min.X < bounds.Min.X {
		rect = rect.Add(image.Pt(bounds.Min.X-rect.Min.X, 0))
	}
	if rect.Min.Y < bounds.Min.Y {
		rect = rect.Add(image.Pt(0, bounds.Min.Y-rect.Min.Y))
	}
	if rect.Max.X > bounds.Max.X {
		rect = rect.Add(image.Pt(bounds.Max.X-rect.Max.X, 0))
	}
	if rect.Max.Y > bounds.Max.Y {
		rect = rect.Add(image.Pt(0, bounds.Max.Y-rect.Max.Y))
	}
	return rect.Intersect(bounds)
}

// withAlpha premultiplies a color with the given opacity
func withAlpha(col color.RGBA, alpha float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(col.R) * alpha),
		G: uint8(float64(col.G) * alpha),
		B: uint8(float64(col.B) * alpha),
		A: uint8(255 * alpha),
	}
}

// parseHexColor converts "#rrggbb" into a color, falling back to red
// on anything malformed
func parseHexColor(s string) color.RGBA {
	fallback := color.RGBA{R: 255, G: 59, B: 48, A: 255}
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[1+i*2])
		lo, ok2 := hexDigit(s[2+i*2])
		if !ok1 || !ok2 {
			return fallback
		}
		rgb[i] = hi<<4 | lo
	}

	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
