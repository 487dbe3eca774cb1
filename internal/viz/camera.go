package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera looks down the y axis at the orbital (x-z) plane. Tilt and Yaw
// rotate the view about the screen's horizontal and vertical axes.
type Camera struct {
	Tilt, Yaw float64

	// PixelsPerUnit maps render-space units to canvas sub-pixels.
	PixelsPerUnit float64
}

func NewCamera() *Camera {
	return &Camera{PixelsPerUnit: 1}
}

func (c *Camera) RotateTilt(a float64) { c.Tilt += a }
func (c *Camera) RotateYaw(a float64)  { c.Yaw += a }
func (c *Camera) ResetView()           { c.Tilt, c.Yaw = 0, 0 }

// Fit picks PixelsPerUnit so that a point at distance span from the centre
// lands just inside the smaller canvas half-dimension.
func (c *Camera) Fit(span float64, sw, sh int) {
	if span <= 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		c.PixelsPerUnit = 1
		return
	}
	half := float64(sw) / 2
	if h := float64(sh) / 2; h < half {
		half = h
	}
	c.PixelsPerUnit = 0.9 * half / span
}

// Rotate applies yaw about the y axis, then tilt about the x axis.
func (c *Camera) Rotate(p r3.Vec) r3.Vec {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.Tilt), math.Sin(c.Tilt)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project maps a render-space offset from the view centre to canvas
// sub-pixels. depth grows towards the viewer.
func (c *Camera) Project(p r3.Vec, sw, sh int) (x, y int, depth float64, visible bool) {
	rot := c.Rotate(p)
	fx := rot.X*c.PixelsPerUnit + float64(sw)/2
	fy := rot.Z*c.PixelsPerUnit + float64(sh)/2
	if math.IsNaN(fx) || math.IsNaN(fy) || math.Abs(fx) > 1e9 || math.Abs(fy) > 1e9 {
		return 0, 0, 0, false
	}
	x, y = int(math.Round(fx)), int(math.Round(fy))
	return x, y, rot.Y, x >= 0 && x < sw && y >= 0 && y < sh
}

// Sprite is one projected body ready to paint.
type Sprite struct {
	X, Y, Radius int
	Depth        float64
	Body         string
}

// painterOrder sorts sprites far to near.
func painterOrder(s []Sprite) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Depth < s[j].Depth })
}
