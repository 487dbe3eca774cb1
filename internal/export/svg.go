// Package export renders recorded runs as standalone SVG images.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/starsim/internal/storage"
)

// Orbit is one body's projected path in the plane of the ecliptic.
type Orbit struct {
	Body   string
	Color  string
	Points [][2]float64
}

// Orbits groups states by body in first-seen order, projecting onto x-z.
// Each body gets an evenly spaced hue.
func Orbits(states []storage.BodyState) []Orbit {
	var orbits []Orbit
	index := make(map[string]int)
	for _, s := range states {
		i, ok := index[s.Body]
		if !ok {
			i = len(orbits)
			index[s.Body] = i
			orbits = append(orbits, Orbit{Body: s.Body})
		}
		orbits[i].Points = append(orbits[i].Points, [2]float64{s.Position.X, s.Position.Z})
	}
	for i := range orbits {
		h := 360 * float64(i) / float64(len(orbits))
		orbits[i].Color = colorful.Hcl(h, 0.6, 0.7).Clamped().Hex()
	}
	return orbits
}

// OrbitsToSVG draws every orbit on a shared, equal-aspect frame with a
// dot at each body's final position. It returns "" when states is empty.
func OrbitsToSVG(states []storage.BodyState, width, height int) string {
	orbits := Orbits(states)
	if len(orbits) == 0 {
		return ""
	}

	minX, maxX := orbits[0].Points[0][0], orbits[0].Points[0][0]
	minY, maxY := orbits[0].Points[0][1], orbits[0].Points[0][1]
	for _, o := range orbits {
		for _, p := range o.Points {
			minX, maxX = min(minX, p[0]), max(maxX, p[0])
			minY, maxY = min(minY, p[1]), max(maxY, p[1])
		}
	}

	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	size := float64(min(width, height))
	project := func(p [2]float64) (float64, float64) {
		x := float64(width)/2 + (p[0]-cx)/span*size
		y := float64(height)/2 - (p[1]-cy)/span*size
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, o := range orbits {
		if len(o.Points) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, o.Color)
			for i, p := range o.Points {
				x, y := project(p)
				if i == 0 {
					fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		x, y := project(o.Points[len(o.Points)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"><title>%s</title></circle>
`, x, y, o.Color, o.Body)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteOrbitsSVG writes OrbitsToSVG output to w.
func WriteOrbitsSVG(w io.Writer, states []storage.BodyState, width, height int) error {
	svg := OrbitsToSVG(states, width, height)
	if svg == "" {
		return fmt.Errorf("export: no states to draw")
	}
	_, err := io.WriteString(w, svg)
	return err
}

func WriteOrbitsSVGFile(path string, states []storage.BodyState, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOrbitsSVG(f, states, width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
