package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/experiment"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480

	numericalColor = "#d62728"
	exactColor     = "#1f77b4"

	marginLeft   = 70.0
	marginRight  = 20.0
	marginTop    = 40.0
	marginBottom = 50.0
	tickCount    = 5
)

type frame struct {
	minX, maxX, minY, maxY float64
	w, h                   float64
}

func (f frame) x(v float64) float64 {
	return marginLeft + (v-f.minX)/(f.maxX-f.minX)*(f.w-marginLeft-marginRight)
}

func (f frame) y(v float64) float64 {
	return f.h - marginBottom - (v-f.minY)/(f.maxY-f.minY)*(f.h-marginTop-marginBottom)
}

// OverlaySVG draws the mesh function as red dashes with circle markers over
// the exact solution I*exp(-a*t) as a solid blue line.
func OverlaySVG(mesh dynamo.MeshFunction, width, height int, title string) string {
	if mesh.Len() == 0 {
		return ""
	}

	T := mesh.T[len(mesh.T)-1]
	exactT, exactU := dynamo.ExactCurve(mesh.Spec.I, mesh.Spec.A, T, dynamo.DefaultExactSamples)

	f := frame{minX: 0, maxX: T, w: float64(width), h: float64(height)}
	f.minY, f.maxY = bounds(mesh.U, exactU)
	if f.maxX == f.minX {
		f.maxX = f.minX + 1
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	writeAxes(&sb, f)

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>
`, f.w/2, marginTop/2+6, escape(title)))

	// exact solution
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, exactColor))
	writePath(&sb, f, exactT, exactU)
	sb.WriteString("\"/>\n")

	// numerical solution
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="6,4" d="`, numericalColor))
	writePath(&sb, f, mesh.T, mesh.U)
	sb.WriteString("\"/>\n")

	sb.WriteString(fmt.Sprintf(`<g fill="none" stroke="%s" stroke-width="1.5">
`, numericalColor))
	for i, t := range mesh.T {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4"/>
`, f.x(t), f.y(mesh.U[i])))
	}
	sb.WriteString("</g>\n")

	writeLegend(&sb, f)

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteOverlaySVG writes OverlaySVG to path, creating parent directories.
func WriteOverlaySVG(path string, mesh dynamo.MeshFunction, title string) error {
	if mesh.Len() == 0 {
		return dynamo.ErrNoData
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(OverlaySVG(mesh, DefaultWidth, DefaultHeight, title)), 0644)
}

// Title is the plot title for a run, e.g. "Backward Euler, dt=0.8".
func Title(demoTitle string, dt float64) string {
	return fmt.Sprintf("%s, dt=%.6g", demoTitle, dt)
}

// PlotSink writes one <abbrev>.svg per single-theta run into a directory.
// Sweep runs are skipped.
type PlotSink struct {
	dir     string
	written []string
}

func NewPlotSink(dir string) *PlotSink {
	return &PlotSink{dir: dir}
}

func (p *PlotSink) Consume(run experiment.Run) error {
	if run.Demo.Sweep {
		return nil
	}
	path := filepath.Join(p.dir, run.Demo.Abbrev+".svg")
	if err := WriteOverlaySVG(path, run.Mesh, Title(run.Demo.Title, run.Mesh.Spec.Dt)); err != nil {
		return fmt.Errorf("write plot %s: %w", path, err)
	}
	p.written = append(p.written, path)
	return nil
}

// Written returns the files produced so far.
func (p *PlotSink) Written() []string {
	return append([]string(nil), p.written...)
}

func bounds(series ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 1
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}

func writePath(sb *strings.Builder, f frame, ts, us []float64) {
	first := true
	for i, t := range ts {
		if math.IsNaN(us[i]) || math.IsInf(us[i], 0) {
			first = true
			continue
		}
		cmd := "L"
		if first {
			cmd = "M"
			first = false
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, f.x(t), f.y(us[i])))
	}
}

func writeAxes(sb *strings.Builder, f frame) {
	x0, x1 := marginLeft, f.w-marginRight
	y0, y1 := f.h-marginBottom, marginTop

	sb.WriteString(fmt.Sprintf(`<g stroke="#000000" stroke-width="1">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
`, x0, y0, x1, y0, x0, y0, x0, y1))

	sb.WriteString(`<g font-family="sans-serif" font-size="11" fill="#000000">
`)
	for i := 0; i <= tickCount; i++ {
		tv := f.minX + float64(i)*(f.maxX-f.minX)/tickCount
		px := f.x(tv)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#000000"/>
<text x="%.1f" y="%.1f" text-anchor="middle">%.4g</text>
`, px, y0, px, y0+5, px, y0+18, tv))

		uv := f.minY + float64(i)*(f.maxY-f.minY)/tickCount
		py := f.y(uv)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#000000"/>
<text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>
`, x0-5, py, x0, py, x0-8, py+4, uv))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="13">t</text>
<text x="%.1f" y="%.1f" text-anchor="middle" font-size="13">u</text>
</g>
`, (x0+x1)/2, f.h-12, 18.0, (y0+y1)/2))
}

func writeLegend(sb *strings.Builder, f frame) {
	lx := f.w - marginRight - 130
	ly := marginTop + 10

	sb.WriteString(fmt.Sprintf(`<g font-family="sans-serif" font-size="12">
<rect x="%.1f" y="%.1f" width="120" height="44" fill="#ffffff" stroke="#cccccc"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5" stroke-dasharray="6,4"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="none" stroke="%s" stroke-width="1.5"/>
<text x="%.1f" y="%.1f">numerical</text>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>
<text x="%.1f" y="%.1f">exact</text>
</g>
`,
		lx, ly,
		lx+8, ly+14, lx+38, ly+14, numericalColor,
		lx+23, ly+14, numericalColor,
		lx+46, ly+18,
		lx+8, ly+32, lx+38, ly+32, exactColor,
		lx+46, ly+36))
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
