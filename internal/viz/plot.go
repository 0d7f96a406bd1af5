package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/decay/internal/dynamo"
)

// Overlay plots mesh and the exact solution on a shared axis. Both curves
// are resampled onto width columns so their x positions line up.
func Overlay(mesh dynamo.MeshFunction, width, height int, caption string) string {
	if mesh.Len() == 0 || width < 2 {
		return ""
	}

	T := mesh.T[len(mesh.T)-1]
	cols := dynamo.Linspace(0, T, width)

	numerical := Resample(mesh.T, mesh.U, cols)
	exactT, exactU := dynamo.ExactCurve(mesh.Spec.I, mesh.Spec.A, T, dynamo.DefaultExactSamples)
	exact := Resample(exactT, exactU, cols)

	return asciigraph.PlotMany([][]float64{numerical, exact},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends("numerical", "exact"),
		asciigraph.Caption(caption),
	)
}

// Caption is the plot title used for single-theta runs, e.g.
// "Forward Euler, dt=0.8".
func Caption(title string, dt float64) string {
	return fmt.Sprintf("%s, dt=%.6g", title, dt)
}

// Resample evaluates the piecewise linear interpolant of (ts, us) at each of
// at. ts and at must be non-decreasing; points outside ts are clamped.
func Resample(ts, us []float64, at []float64) []float64 {
	out := make([]float64, len(at))
	if len(ts) == 0 {
		return out
	}

	j := 0
	for i, x := range at {
		switch {
		case x <= ts[0]:
			out[i] = us[0]
			continue
		case x >= ts[len(ts)-1]:
			out[i] = us[len(us)-1]
			continue
		}
		for j+1 < len(ts) && ts[j+1] < x {
			j++
		}
		t0, t1 := ts[j], ts[j+1]
		if t1 == t0 {
			out[i] = us[j+1]
			continue
		}
		f := (x - t0) / (t1 - t0)
		out[i] = us[j] + f*(us[j+1]-us[j])
	}
	return out
}
