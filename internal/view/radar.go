package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tech-selector/internal/models"
)

const (
	radarSize   = 500.0
	radarRadius = 180.0
	radarMax    = 100.0
)

// gridlines at 25% steps
var radarLevels = []float64{25, 50, 75, 100}

// Point is a position in SVG user units
type Point struct {
	X, Y float64
}

// RadarPoint places value (0-100) on axis i of n. Axis 0 points straight up
// and axes advance clockwise.
func RadarPoint(i, n int, value float64) Point {
	value = math.Max(0, math.Min(radarMax, value))
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	r := radarRadius * value / radarMax
	c := radarSize / 2
	return Point{
		X: c + r*math.Cos(angle),
		Y: c + r*math.Sin(angle),
	}
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func polygonPoints(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		p := RadarPoint(i, len(values), v)
		parts[i] = coord(p.X) + "," + coord(p.Y)
	}
	return strings.Join(parts, " ")
}

type radarRing struct {
	Points string
	Label  Point
	Text   string
}

func radarRings(n int) []radarRing {
	rings := make([]radarRing, 0, len(radarLevels))
	for _, level := range radarLevels {
		values := make([]float64, n)
		for i := range values {
			values[i] = level
		}
		label := RadarPoint(0, n, level)
		label.X += 4
		rings = append(rings, radarRing{
			Points: polygonPoints(values),
			Label:  label,
			Text:   fmt.Sprintf("%d%%", int(level)),
		})
	}
	return rings
}

type radarAxis struct {
	Name  string
	End   Point
	Label Point
}

func radarAxes(criteria []string) []radarAxis {
	axes := make([]radarAxis, len(criteria))
	for i, name := range criteria {
		axes[i] = radarAxis{
			Name:  name,
			End:   RadarPoint(i, len(criteria), radarMax),
			Label: RadarPoint(i, len(criteria), radarMax*1.15),
		}
	}
	return axes
}

type radarDot struct {
	At    Point
	Title string
}

func radarDots(s models.ScoreSeries, criteria []string) []radarDot {
	dots := make([]radarDot, 0, len(s.Values))
	for i, v := range s.Values {
		if i >= len(criteria) {
			break
		}
		dots = append(dots, radarDot{
			At:    RadarPoint(i, len(s.Values), v),
			Title: fmt.Sprintf("%s · %s: %.0f%%", s.Name, criteria[i], v),
		})
	}
	return dots
}
